package repository

import (
	"context"

	"bundle-configurator/catalog"
)

// CatalogRepositoryInterface defines the contract for catalog snapshot sources.
// Implementations return the raw documents; parsing belongs to catalog.Load.
type CatalogRepositoryInterface interface {
	LoadRaw(ctx context.Context) (catalog.Raw, error)
}
