package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ofisi/requestflow/internal/domain/workflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testLogger struct {
	errorCount int
}

func (l *testLogger) Info(string, ...interface{})  {}
func (l *testLogger) Error(string, ...interface{}) { l.errorCount++ }

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", fmt.Errorf("%w: request 9", workflow.ErrNotFound), http.StatusNotFound},
		{"forbidden", fmt.Errorf("%w: role required", workflow.ErrForbidden), http.StatusForbidden},
		{"invalid state", fmt.Errorf("%w: already terminal", workflow.ErrInvalidState), http.StatusConflict},
		{"validation", fmt.Errorf("%w: destination required", workflow.ErrValidation), http.StatusBadRequest},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handlers{logger: &testLogger{}}
			c, rec := newTestContext(t)

			h.respondError(c, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeResponse(t, rec)
			if resp.Success {
				t.Error("expected success=false")
			}
		})
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	logger := &testLogger{}
	h := &Handlers{logger: logger}
	c, rec := newTestContext(t)

	h.respondError(c, errors.New("dial tcp 10.0.0.5: connection refused"))

	resp := decodeResponse(t, rec)
	if resp.Error != "internal error" {
		t.Errorf("error message = %q, want the internal detail hidden", resp.Error)
	}
	if logger.errorCount == 0 {
		t.Error("expected the real error to be logged")
	}
}

func TestActorHeaderRequired(t *testing.T) {
	h := &Handlers{logger: &testLogger{}}

	c, rec := newTestContext(t)
	if _, ok := h.actor(c); ok {
		t.Error("expected missing header to be rejected")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	c, _ = newTestContext(t)
	c.Request.Header.Set(actorHeader, "user-1")
	actorID, ok := h.actor(c)
	if !ok || actorID != "user-1" {
		t.Errorf("actor() = %q, %v, want user-1, true", actorID, ok)
	}
}

func TestRequestIDParam(t *testing.T) {
	h := &Handlers{logger: &testLogger{}}

	tests := []struct {
		name   string
		param  string
		wantID int64
		wantOK bool
	}{
		{"valid", "42", 42, true},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
		{"garbage", "abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			c.Params = gin.Params{{Key: "id", Value: tt.param}}

			id, ok := h.requestID(c)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("requestID() = %d, %v, want %d, %v", id, ok, tt.wantID, tt.wantOK)
			}
			if !tt.wantOK && rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	h := &Handlers{logger: &testLogger{}}
	c, rec := newTestContext(t)

	h.HealthCheck(c)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("expected success=true")
	}
}
