package storage

import (
	"context"
	"fmt"

	"github.com/konektanet/konekta/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Provide(cfg config.Config, log *zap.Logger) (Store, error) {
	switch cfg.Storage.Driver {
	case "s3":
		store, err := NewS3Store(context.Background(), cfg.Storage)
		if err != nil {
			return nil, err
		}
		log.Info("blob storage ready",
			zap.String("driver", "s3"),
			zap.String("bucket", cfg.Storage.S3Bucket),
		)
		return store, nil
	case "", "local":
		store, err := NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicURL)
		if err != nil {
			return nil, err
		}
		log.Info("blob storage ready",
			zap.String("driver", "local"),
			zap.String("dir", cfg.Storage.LocalDir),
		)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

var Module = fx.Module("storage",
	fx.Provide(Provide),
)
