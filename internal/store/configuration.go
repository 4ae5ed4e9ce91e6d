package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kubev2v/interface-queue/internal/models"
	srvErrors "github.com/kubev2v/interface-queue/pkg/errors"
)

// ConfigurationStore persists the operator's runtime configuration overrides.
type ConfigurationStore struct {
	db QueryInterceptor
}

func NewConfigurationStore(db QueryInterceptor) *ConfigurationStore {
	return &ConfigurationStore{db: db}
}

// Get retrieves the stored configuration.
func (s *ConfigurationStore) Get(ctx context.Context) (*models.Configuration, error) {
	row := s.db.QueryRowContext(ctx, queryGetConfiguration)

	var cfg models.Configuration
	err := row.Scan(&cfg.MaxActiveTasks, &cfg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewConfigurationNotFoundError()
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save stores or updates the configuration.
func (s *ConfigurationStore) Save(ctx context.Context, cfg *models.Configuration) error {
	if cfg.MaxActiveTasks <= 0 {
		return srvErrors.NewInvalidArgumentError("max_active_tasks", "must be positive, got %d", cfg.MaxActiveTasks)
	}
	_, err := s.db.ExecContext(ctx, queryUpsertConfiguration, cfg.MaxActiveTasks)
	return err
}

// Reset drops the stored overrides so the static configuration applies again.
func (s *ConfigurationStore) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, queryDeleteConfiguration)
	return err
}
