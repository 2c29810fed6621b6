package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestItemTarget(t *testing.T) {
	item := &RequestItem{RequestedQuantity: 10}
	assert.Equal(t, 10, item.Target(), "target falls back to the requested quantity")

	approved := 6
	item.ApprovedQuantity = &approved
	assert.Equal(t, 6, item.Target(), "an approved quantity overrides the requested one")

	zero := 0
	item.ApprovedQuantity = &zero
	assert.Equal(t, 0, item.Target(), "an explicit zero approval is a real target")
}

func TestRequestItemRemaining(t *testing.T) {
	item := &RequestItem{RequestedQuantity: 10, FulfilledQuantity: 4}
	assert.Equal(t, 6, item.Remaining())

	approved := 6
	item.ApprovedQuantity = &approved
	assert.Equal(t, 2, item.Remaining(), "remaining is measured against the approved quantity")
}

func TestRequestItemIsFulfilled(t *testing.T) {
	item := &RequestItem{RequestedQuantity: 10}
	assert.False(t, item.IsFulfilled())

	item.FulfilledQuantity = 10
	assert.True(t, item.IsFulfilled())

	approved := 4
	item.ApprovedQuantity = &approved
	item.FulfilledQuantity = 4
	assert.True(t, item.IsFulfilled(), "a trimmed line is fulfilled at its approved quantity")
}
