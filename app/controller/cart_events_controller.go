package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"bundle-configurator/models"
)

// CartSubscriber hands out CartChanged subscriptions
type CartSubscriber interface {
	Subscribe(buffer int) (<-chan models.CartChanged, func())
}

// CartEventsController streams cart changes as server-sent events
type CartEventsController struct {
	bus    CartSubscriber
	logger *zap.Logger
}

// NewCartEventsController creates a new CartEventsController
func NewCartEventsController(bus CartSubscriber, logger *zap.Logger) *CartEventsController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartEventsController{bus: bus, logger: logger}
}

// Stream handles GET /cart/events
// Each successful submission is sent as `event: cart-changed`. An optional
// ?widget=<id> query limits the stream to one widget.
func (c *CartEventsController) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	widgetID := r.URL.Query().Get("widget")

	events, cancel := c.bus.Subscribe(8)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	c.logger.Debug("Stream: subscriber connected", zap.String("widget_id", widgetID))
	for {
		select {
		case <-r.Context().Done():
			c.logger.Debug("Stream: subscriber disconnected", zap.String("widget_id", widgetID))
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if widgetID != "" && evt.WidgetID != widgetID {
				continue
			}
			data, err := json.Marshal(evt)
			if err != nil {
				c.logger.Error("Stream: error encoding event", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: cart-changed\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
