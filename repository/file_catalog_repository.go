package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"bundle-configurator/catalog"
)

// FileCatalogRepository reads one <kind>.json file per snapshot kind from a directory
type FileCatalogRepository struct {
	dir    string
	logger *zap.Logger
}

// NewFileCatalogRepository creates a FileCatalogRepository rooted at dir
func NewFileCatalogRepository(dir string, logger *zap.Logger) *FileCatalogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileCatalogRepository{dir: dir, logger: logger}
}

// Ensure FileCatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*FileCatalogRepository)(nil)

// Dir returns the catalog directory
func (r *FileCatalogRepository) Dir() string {
	return r.dir
}

// LoadRaw reads every kind file. A missing file is an empty kind.
func (r *FileCatalogRepository) LoadRaw(ctx context.Context) (catalog.Raw, error) {
	info, err := os.Stat(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog path %s is not a directory", r.dir)
	}

	raw := catalog.Raw{}
	for _, kind := range catalog.Kinds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := KindFile(r.dir, kind)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("catalog kind file missing", zap.String("kind", string(kind)), zap.String("path", path))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		raw[kind] = data
	}
	r.logger.Info("LoadRaw: read catalog files", zap.String("dir", r.dir), zap.Int("kinds", len(raw)))
	return raw, nil
}

// KindFile returns the file holding kind under dir
func KindFile(dir string, kind catalog.Kind) string {
	return filepath.Join(dir, string(kind)+".json")
}
