package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"bundle-configurator/catalog"
)

// CatalogRepository reads catalog snapshot documents from PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE catalog_documents (
//	    kind       TEXT PRIMARY KEY,
//	    document   JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type CatalogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *sql.DB, logger *zap.Logger) *CatalogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogRepository{db: db, logger: logger}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// LoadRaw fetches one document per kind
func (r *CatalogRepository) LoadRaw(ctx context.Context) (catalog.Raw, error) {
	query := `
		SELECT kind, document::text
		FROM catalog_documents
		ORDER BY kind ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("LoadRaw: error querying catalog documents", zap.Error(err))
		return nil, fmt.Errorf("failed to query catalog documents: %w", err)
	}
	defer rows.Close()

	docs := map[string]string{}
	for rows.Next() {
		var kind, document string
		if err := rows.Scan(&kind, &document); err != nil {
			return nil, fmt.Errorf("failed to scan catalog document: %w", err)
		}
		docs[kind] = document
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog documents: %w", err)
	}

	raw, unknown := rawFromDocuments(docs)
	for _, kind := range unknown {
		r.logger.Warn("LoadRaw: ignoring unknown catalog kind", zap.String("kind", kind))
	}
	r.logger.Info("LoadRaw: fetched catalog documents", zap.Int("kinds", len(raw)))
	return raw, nil
}

// rawFromDocuments keeps the documents of known kinds and returns the
// names of the others
func rawFromDocuments(docs map[string]string) (catalog.Raw, []string) {
	known := map[catalog.Kind]bool{}
	for _, k := range catalog.Kinds {
		known[k] = true
	}

	raw := catalog.Raw{}
	var unknown []string
	for kind, doc := range docs {
		if !known[catalog.Kind(kind)] {
			unknown = append(unknown, kind)
			continue
		}
		raw[catalog.Kind(kind)] = []byte(doc)
	}
	return raw, unknown
}
