package controller

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"bundle-configurator/models"
	"bundle-configurator/service"
)

// WidgetServiceInterface is the widget lifecycle the controller drives
type WidgetServiceInterface interface {
	Mount() *service.Widget
	Get(id string) (*service.Widget, error)
	Unmount(id string) error
}

// WidgetController handles HTTP requests for configurator widgets
type WidgetController struct {
	widgets WidgetServiceInterface
	logger  *zap.Logger
}

// NewWidgetController creates a new WidgetController
func NewWidgetController(widgets WidgetServiceInterface, logger *zap.Logger) *WidgetController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WidgetController{widgets: widgets, logger: logger}
}

// Mount handles POST /widgets
func (c *WidgetController) Mount(w http.ResponseWriter, r *http.Request) {
	widget := c.widgets.Mount()
	writeJSON(w, c.logger, "Mount", http.StatusCreated, widget.State())
}

// Get handles GET /widgets/{id}
func (c *WidgetController) Get(w http.ResponseWriter, r *http.Request) {
	widget, ok := c.widget(w, r, "Get")
	if !ok {
		return
	}
	writeJSON(w, c.logger, "Get", http.StatusOK, widget.State())
}

// Unmount handles DELETE /widgets/{id}
func (c *WidgetController) Unmount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := c.widgets.Unmount(id); err != nil {
		c.logger.Warn("Unmount: widget not found", zap.String("widget_id", id))
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectModel handles POST /widgets/{id}/model
// Example: {"modelId": "M1"}
func (c *WidgetController) SelectModel(w http.ResponseWriter, r *http.Request) {
	widget, ok := c.widget(w, r, "SelectModel")
	if !ok {
		return
	}
	var req models.SelectModelRequest
	if !c.decode(w, r, "SelectModel", &req) {
		return
	}
	writeJSON(w, c.logger, "SelectModel", http.StatusOK, widget.SelectModel(req.ModelID))
}

// ToggleGroup handles POST /widgets/{id}/groups
// Example: {"groupId": "G1"}
func (c *WidgetController) ToggleGroup(w http.ResponseWriter, r *http.Request) {
	widget, ok := c.widget(w, r, "ToggleGroup")
	if !ok {
		return
	}
	var req models.ToggleGroupRequest
	if !c.decode(w, r, "ToggleGroup", &req) {
		return
	}
	writeJSON(w, c.logger, "ToggleGroup", http.StatusOK, widget.ToggleAccessoryGroup(req.GroupID))
}

// ToggleEntry handles POST /widgets/{id}/entries
// Example: {"entryId": "A1"}
func (c *WidgetController) ToggleEntry(w http.ResponseWriter, r *http.Request) {
	widget, ok := c.widget(w, r, "ToggleEntry")
	if !ok {
		return
	}
	var req models.ToggleEntryRequest
	if !c.decode(w, r, "ToggleEntry", &req) {
		return
	}
	writeJSON(w, c.logger, "ToggleEntry", http.StatusOK, widget.ToggleEntry(req.EntryID))
}

// ChangeQuantity handles POST /widgets/{id}/quantity
// Example: {"entryId": "I1", "delta": 1}
func (c *WidgetController) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	widget, ok := c.widget(w, r, "ChangeQuantity")
	if !ok {
		return
	}
	var req models.ChangeQuantityRequest
	if !c.decode(w, r, "ChangeQuantity", &req) {
		return
	}
	writeJSON(w, c.logger, "ChangeQuantity", http.StatusOK, widget.ChangeQuantity(req.EntryID, req.Delta))
}

// Clear handles POST /widgets/{id}/clear
func (c *WidgetController) Clear(w http.ResponseWriter, r *http.Request) {
	widget, ok := c.widget(w, r, "Clear")
	if !ok {
		return
	}
	writeJSON(w, c.logger, "Clear", http.StatusOK, widget.Clear())
}

// Submit handles POST /widgets/{id}/submit
// Example: {"sections": ["cart-drawer", "cart-icon-bubble"]}
//
// Responds 200 on success, 422 when nothing is selected, 409 while another
// submission is in flight and 502 when the cart refuses or fails.
func (c *WidgetController) Submit(w http.ResponseWriter, r *http.Request) {
	widget, ok := c.widget(w, r, "Submit")
	if !ok {
		return
	}
	var req models.SubmitRequest
	if !c.decode(w, r, "Submit", &req) {
		return
	}

	cart, state, err := widget.Submit(r.Context(), req.Sections)
	resp := models.SubmitResponse{Cart: cart, State: state}
	status := http.StatusOK

	var serr *service.SubmissionError
	switch {
	case err == nil:
		resp.Outcome = "succeeded"
	case errors.Is(err, service.ErrEmptySelection):
		resp.Outcome = "rejected"
		resp.Error = err.Error()
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrSubmissionInFlight):
		resp.Outcome = "ignored"
		resp.Error = err.Error()
		status = http.StatusConflict
	case errors.As(err, &serr):
		resp.Outcome = "failed"
		resp.Error = serr.Label
		status = http.StatusBadGateway
	default:
		resp.Outcome = "failed"
		resp.Error = err.Error()
		status = http.StatusInternalServerError
	}

	c.logger.Info("Submit: finished",
		zap.String("widget_id", widget.ID),
		zap.String("outcome", resp.Outcome),
		zap.Int("status", status))
	writeJSON(w, c.logger, "Submit", status, resp)
}

// widget resolves the {id} path value, writing a 404 when it is unknown
func (c *WidgetController) widget(w http.ResponseWriter, r *http.Request, op string) (*service.Widget, bool) {
	id := r.PathValue("id")
	widget, err := c.widgets.Get(id)
	if err != nil {
		c.logger.Warn(op+": widget not found", zap.String("widget_id", id))
		http.Error(w, err.Error(), statusFor(err))
		return nil, false
	}
	return widget, true
}

func (c *WidgetController) decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if err := decodeBody(r, v); err != nil {
		c.logger.Warn(op+": failed to decode request body", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
