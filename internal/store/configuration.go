package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kubev2v/async-worker/internal/models"
	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

// ConfigurationStore handles configuration storage using DuckDB.
type ConfigurationStore struct {
	db QueryInterceptor
}

// NewConfigurationStore creates a new configuration store.
func NewConfigurationStore(db QueryInterceptor) *ConfigurationStore {
	return &ConfigurationStore{db: db}
}

// Get retrieves the stored configuration.
func (s *ConfigurationStore) Get(ctx context.Context) (*models.Configuration, error) {
	row := s.db.QueryRowContext(ctx, queryGetConfiguration)

	var (
		root      string
		updatedAt time.Time
	)
	err := row.Scan(&root, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewConfigurationNotFoundError()
	}
	if err != nil {
		return nil, err
	}
	return &models.Configuration{
		FsRoot:    root,
		UpdatedAt: updatedAt,
	}, nil
}

// Save stores or updates the configuration.
func (s *ConfigurationStore) Save(ctx context.Context, cfg *models.Configuration) error {
	_, err := s.db.ExecContext(ctx, queryUpsertConfiguration, cfg.FsRoot)
	return err
}
