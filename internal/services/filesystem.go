package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/kubev2v/async-worker/internal/models"
	"github.com/kubev2v/async-worker/internal/store"
	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

// ResolveRoot picks the filesystem root to mount:
//  1. the configured root when set, which is then persisted
//  2. otherwise the root persisted by a previous run
//
// It fails with an InvalidConfigurationError when neither is available.
func ResolveRoot(ctx context.Context, st *store.Store, configured string) (string, error) {
	log := zap.S().Named("filesystem")

	if configured != "" {
		if err := st.Configuration().Save(ctx, &models.Configuration{FsRoot: configured}); err != nil {
			return "", err
		}
		log.Debugw("filesystem root from configuration", "root", configured)
		return configured, nil
	}

	cfg, err := st.Configuration().Get(ctx)
	if srvErrors.IsResourceNotFoundError(err) {
		return "", srvErrors.NewInvalidConfigurationError("Filesystem.Root", "no root configured and none persisted")
	}
	if err != nil {
		return "", err
	}

	log.Infow("filesystem root restored", "root", cfg.FsRoot, "saved_at", cfg.UpdatedAt)
	return cfg.FsRoot, nil
}
