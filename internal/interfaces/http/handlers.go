package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ofisi/requestflow/internal/application/lifecycle"
	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/application/service"
	"github.com/ofisi/requestflow/internal/domain/entity"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// actorHeader carries the authenticated user's ID. Authentication
// itself happens upstream of this service.
const actorHeader = "X-User-ID"

// lifecycleService is the operation set every request domain shares
type lifecycleService interface {
	Submit(ctx context.Context, in *lifecycle.SubmitInput) (*entity.Request, error)
	Get(ctx context.Context, id int64) (*lifecycle.RequestDetail, error)
	List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error)
	Approve(ctx context.Context, id int64, actorID string, stage workflow.Stage, comment string, adminOverride bool) (*entity.Request, error)
	Reject(ctx context.Context, id int64, actorID string, stage workflow.Stage, comment string, adminOverride bool) (*entity.Request, error)
	Correct(ctx context.Context, id int64, actorID, comment string, patch *lifecycle.CorrectionPatch) (*entity.Request, error)
	Cancel(ctx context.Context, id int64, actorID, reason string) (*entity.Request, error)
	SetPriority(ctx context.Context, id int64, actorID string, priority bool) (*entity.Request, error)
	Delete(ctx context.Context, id int64, actorID string) error
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	vehicles *service.VehicleService
	ict      *service.ICTService
	store    *service.StoreService
	admin    *service.AdminService
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	vehicles *service.VehicleService,
	ict *service.ICTService,
	store *service.StoreService,
	admin *service.AdminService,
	logger Logger,
) *Handlers {
	return &Handlers{
		vehicles: vehicles,
		ict:      ict,
		store:    store,
		admin:    admin,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// DecisionRequest is the body of approve and reject calls. Stage names
// the stage the caller believes it is deciding; the engine refuses the
// call if the request has since moved on.
type DecisionRequest struct {
	Stage         string `json:"stage" binding:"required"`
	Comment       string `json:"comment"`
	AdminOverride bool   `json:"admin_override"`
}

// CorrectRequest is the body of a correction call
type CorrectRequest struct {
	Comment string                     `json:"comment" binding:"required"`
	Patch   *lifecycle.CorrectionPatch `json:"patch"`
}

// CancelRequest is the body of a cancel call
type CancelRequest struct {
	Reason string `json:"reason"`
}

// RouteRequest is the body of the store routing fork
type RouteRequest struct {
	DirectToSO bool `json:"direct_to_so"`
}

// AssignRequest is the body of a vehicle assignment
type AssignRequest struct {
	VehicleID int64 `json:"vehicle_id" binding:"required"`
	DriverID  int64 `json:"driver_id" binding:"required"`
}

// FulfillRequest is the body of a fulfillment call
type FulfillRequest struct {
	Lines []lifecycle.FulfillLine `json:"lines" binding:"required"`
}

// QuantitiesRequest is the body of a per-line quantity adjustment
type QuantitiesRequest struct {
	Changes []lifecycle.QuantityChange `json:"changes" binding:"required"`
}

// PriorityRequest is the body of a priority toggle
type PriorityRequest struct {
	Priority bool `json:"priority"`
}

// ListRequest represents query parameters for listing requests
type ListRequest struct {
	Stage       string `form:"stage"`
	Status      string `form:"status"`
	RequesterID string `form:"requester_id"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// Vehicle domain

func (h *Handlers) SubmitVehicle(c *gin.Context)     { h.submit(c, h.vehicles) }
func (h *Handlers) ListVehicle(c *gin.Context)       { h.list(c, h.vehicles) }
func (h *Handlers) GetVehicle(c *gin.Context)        { h.get(c, h.vehicles) }
func (h *Handlers) ApproveVehicle(c *gin.Context)    { h.approve(c, h.vehicles) }
func (h *Handlers) RejectVehicle(c *gin.Context)     { h.reject(c, h.vehicles) }
func (h *Handlers) CorrectVehicle(c *gin.Context)    { h.correct(c, h.vehicles) }
func (h *Handlers) CancelVehicle(c *gin.Context)     { h.cancel(c, h.vehicles) }
func (h *Handlers) PrioritizeVehicle(c *gin.Context) { h.setPriority(c, h.vehicles) }
func (h *Handlers) DeleteVehicle(c *gin.Context)     { h.delete(c, h.vehicles) }

// AssignVehicle handles POST /api/vehicle/requests/:id/assign
func (h *Handlers) AssignVehicle(c *gin.Context) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "vehicle_id and driver_id are required")
		return
	}

	request, err := h.vehicles.Assign(c.Request.Context(), id, actorID, req.VehicleID, req.DriverID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

// ICT domain

func (h *Handlers) SubmitICT(c *gin.Context)     { h.submit(c, h.ict) }
func (h *Handlers) ListICT(c *gin.Context)       { h.list(c, h.ict) }
func (h *Handlers) GetICT(c *gin.Context)        { h.get(c, h.ict) }
func (h *Handlers) ApproveICT(c *gin.Context)    { h.approve(c, h.ict) }
func (h *Handlers) RejectICT(c *gin.Context)     { h.reject(c, h.ict) }
func (h *Handlers) CorrectICT(c *gin.Context)    { h.correct(c, h.ict) }
func (h *Handlers) CancelICT(c *gin.Context)     { h.cancel(c, h.ict) }
func (h *Handlers) PrioritizeICT(c *gin.Context) { h.setPriority(c, h.ict) }
func (h *Handlers) DeleteICT(c *gin.Context)     { h.delete(c, h.ict) }

// FulfillICT handles POST /api/ict/requests/:id/fulfill
func (h *Handlers) FulfillICT(c *gin.Context) {
	h.fulfill(c, func(ctx context.Context, id int64, actorID string, lines []lifecycle.FulfillLine) (*entity.Request, error) {
		return h.ict.Fulfill(ctx, id, actorID, lines)
	})
}

// AdjustICTQuantities handles POST /api/ict/requests/:id/quantities
func (h *Handlers) AdjustICTQuantities(c *gin.Context) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}

	var req QuantitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "changes are required")
		return
	}

	request, err := h.ict.AdjustQuantities(c.Request.Context(), id, actorID, req.Changes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

// Store domain

func (h *Handlers) SubmitStore(c *gin.Context)     { h.submit(c, h.store) }
func (h *Handlers) ListStore(c *gin.Context)       { h.list(c, h.store) }
func (h *Handlers) GetStore(c *gin.Context)        { h.get(c, h.store) }
func (h *Handlers) ApproveStore(c *gin.Context)    { h.approve(c, h.store) }
func (h *Handlers) RejectStore(c *gin.Context)     { h.reject(c, h.store) }
func (h *Handlers) CorrectStore(c *gin.Context)    { h.correct(c, h.store) }
func (h *Handlers) CancelStore(c *gin.Context)     { h.cancel(c, h.store) }
func (h *Handlers) PrioritizeStore(c *gin.Context) { h.setPriority(c, h.store) }
func (h *Handlers) DeleteStore(c *gin.Context)     { h.delete(c, h.store) }

// RouteStore handles POST /api/store/requests/:id/route
func (h *Handlers) RouteStore(c *gin.Context) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}

	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	request, err := h.store.Route(c.Request.Context(), id, actorID, req.DirectToSO)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

// FulfillStore handles POST /api/store/requests/:id/fulfill
func (h *Handlers) FulfillStore(c *gin.Context) {
	h.fulfill(c, func(ctx context.Context, id int64, actorID string, lines []lifecycle.FulfillLine) (*entity.Request, error) {
		return h.store.Fulfill(ctx, id, actorID, lines)
	})
}

// Admin

// ResetAll handles DELETE /api/admin/requests
func (h *Handlers) ResetAll(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.admin.Reset(c.Request.Context(), actorID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// RequestNotifications handles GET /api/admin/requests/:id/notifications
func (h *Handlers) RequestNotifications(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	notifications, err := h.admin.Notifications(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: notifications})
}

// Shared lifecycle handlers

func (h *Handlers) submit(c *gin.Context, svc lifecycleService) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}

	var in lifecycle.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}
	in.RequesterID = actorID

	request, err := svc.Submit(c.Request.Context(), &in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: request})
}

func (h *Handlers) list(c *gin.Context, svc lifecycleService) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters")
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	requests, err := svc.List(c.Request.Context(), port.RequestFilter{
		Stage:       workflow.Stage(req.Stage),
		Status:      workflow.Status(req.Status),
		RequesterID: req.RequesterID,
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: requests})
}

func (h *Handlers) get(c *gin.Context, svc lifecycleService) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	detail, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: detail})
}

func (h *Handlers) approve(c *gin.Context, svc lifecycleService) {
	h.decide(c, svc.Approve)
}

func (h *Handlers) reject(c *gin.Context, svc lifecycleService) {
	h.decide(c, svc.Reject)
}

func (h *Handlers) decide(c *gin.Context, op func(ctx context.Context, id int64, actorID string, stage workflow.Stage, comment string, adminOverride bool) (*entity.Request, error)) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "stage is required")
		return
	}

	request, err := op(c.Request.Context(), id, actorID, workflow.Stage(req.Stage), req.Comment, req.AdminOverride)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

func (h *Handlers) correct(c *gin.Context, svc lifecycleService) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}

	var req CorrectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "comment is required")
		return
	}

	request, err := svc.Correct(c.Request.Context(), id, actorID, req.Comment, req.Patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

func (h *Handlers) cancel(c *gin.Context, svc lifecycleService) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	request, err := svc.Cancel(c.Request.Context(), id, actorID, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

func (h *Handlers) fulfill(c *gin.Context, op func(ctx context.Context, id int64, actorID string, lines []lifecycle.FulfillLine) (*entity.Request, error)) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}

	var req FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "lines are required")
		return
	}

	request, err := op(c.Request.Context(), id, actorID, req.Lines)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

func (h *Handlers) setPriority(c *gin.Context, svc lifecycleService) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}

	var req PriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	request, err := svc.SetPriority(c.Request.Context(), id, actorID, req.Priority)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

func (h *Handlers) delete(c *gin.Context, svc lifecycleService) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}

	if err := svc.Delete(c.Request.Context(), id, actorID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// Helpers

func (h *Handlers) actor(c *gin.Context) (string, bool) {
	actorID := c.GetHeader(actorHeader)
	if actorID == "" {
		c.JSON(http.StatusUnauthorized, Response{
			Success: false,
			Error:   "missing " + actorHeader + " header",
		})
		return "", false
	}
	return actorID, true
}

func (h *Handlers) requestID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.badRequest(c, "invalid request id")
		return 0, false
	}
	return id, true
}

func (h *Handlers) idAndActor(c *gin.Context) (int64, string, bool) {
	id, ok := h.requestID(c)
	if !ok {
		return 0, "", false
	}
	actorID, ok := h.actor(c)
	if !ok {
		return 0, "", false
	}
	return id, actorID, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// respondError maps domain errors onto HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workflow.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, workflow.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, workflow.ErrValidation):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(status, Response{Success: false, Error: "internal error"})
		return
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}
