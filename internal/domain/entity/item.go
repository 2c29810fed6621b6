package entity

// RequestItem is one line of an ICT or Store request. FulfilledQuantity
// never exceeds Target() at any point in the request's life.
type RequestItem struct {
	ID                int64  `json:"id"`
	RequestID         int64  `json:"request_id"`
	StockItemID       int64  `json:"stock_item_id"`
	Name              string `json:"name"`
	RequestedQuantity int    `json:"requested_quantity"`
	ApprovedQuantity  *int   `json:"approved_quantity,omitempty"`
	FulfilledQuantity int    `json:"fulfilled_quantity"`
	Available         bool   `json:"available"`
	Note              string `json:"note,omitempty"`
}

// Target returns the quantity fulfillment is measured against: the
// approved quantity when one was set, the requested quantity otherwise.
func (i *RequestItem) Target() int {
	if i.ApprovedQuantity != nil {
		return *i.ApprovedQuantity
	}
	return i.RequestedQuantity
}

// Remaining returns how much of the target is still unfulfilled
func (i *RequestItem) Remaining() int {
	return i.Target() - i.FulfilledQuantity
}

// IsFulfilled returns true once the line has reached its target
func (i *RequestItem) IsFulfilled() bool {
	return i.FulfilledQuantity >= i.Target()
}
