package controller

import (
	"net/http"

	"go.uber.org/zap"

	"bundle-configurator/models"
)

// CatalogOverviewer exposes the loaded catalog
type CatalogOverviewer interface {
	Overview() models.CatalogOverview
	Unavailable() bool
}

// CatalogController handles HTTP requests for the catalog snapshot
type CatalogController struct {
	catalog CatalogOverviewer
	logger  *zap.Logger
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalog CatalogOverviewer, logger *zap.Logger) *CatalogController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogController{catalog: catalog, logger: logger}
}

// GetCatalog handles GET /catalog
// Responds 503 with the (empty) overview when the catalog source is unavailable.
func (c *CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	overview := c.catalog.Overview()
	status := http.StatusOK
	if c.catalog.Unavailable() {
		c.logger.Warn("GetCatalog: catalog source unavailable")
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, c.logger, "GetCatalog", status, overview)
}
