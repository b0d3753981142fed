package router

import (
	"net/http"

	"bundle-configurator/app/controller"
)

type Controllers struct {
	Widget     *controller.WidgetController
	Catalog    *controller.CatalogController
	CartEvents *controller.CartEventsController
	Metrics    http.Handler
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("GET /ping", pingHandler)

	// Catalog snapshot overview
	mux.HandleFunc("GET /catalog", controllers.Catalog.GetCatalog)

	// Widget lifecycle
	mux.HandleFunc("POST /widgets", controllers.Widget.Mount)
	mux.HandleFunc("GET /widgets/{id}", controllers.Widget.Get)
	mux.HandleFunc("DELETE /widgets/{id}", controllers.Widget.Unmount)

	// Selection operations
	mux.HandleFunc("POST /widgets/{id}/model", controllers.Widget.SelectModel)
	mux.HandleFunc("POST /widgets/{id}/groups", controllers.Widget.ToggleGroup)
	mux.HandleFunc("POST /widgets/{id}/entries", controllers.Widget.ToggleEntry)
	mux.HandleFunc("POST /widgets/{id}/quantity", controllers.Widget.ChangeQuantity)
	mux.HandleFunc("POST /widgets/{id}/clear", controllers.Widget.Clear)

	// Add to cart
	mux.HandleFunc("POST /widgets/{id}/submit", controllers.Widget.Submit)

	// Cart change notifications
	if controllers.CartEvents != nil {
		mux.HandleFunc("GET /cart/events", controllers.CartEvents.Stream)
	}

	if controllers.Metrics != nil {
		mux.Handle("GET /metrics", controllers.Metrics)
	}
}
