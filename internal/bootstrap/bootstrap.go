// Package bootstrap builds the stores shared by the API server and the admin
// CLI from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/auction1/pto-backend-go/internal/config"
	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/auction1/pto-backend-go/internal/pkg/database"
	"github.com/auction1/pto-backend-go/internal/pkg/storage"
	"github.com/auction1/pto-backend-go/internal/repository/blob"
	"github.com/auction1/pto-backend-go/internal/repository/postgresql"
)

// BlobStore opens the configured shared folder, wrapped with bounded retry.
func BlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	var store storage.BlobStore
	switch cfg.Storage.Type {
	case config.StorageLocal:
		local, err := storage.NewLocalStorage(cfg.Storage.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("open local storage: %w", err)
		}
		store = local
	case config.StorageDrive:
		creds, err := cfg.DriveCredentials()
		if err != nil {
			return nil, err
		}
		drive, err := storage.NewDriveStorage(ctx, creds, cfg.Drive.FolderID)
		if err != nil {
			return nil, fmt.Errorf("open drive storage: %w", err)
		}
		store = drive
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}

	slog.Info("Blob store ready", "type", cfg.Storage.Type, "retry_attempts", cfg.Retry.Attempts)
	return storage.WithRetry(store, cfg.Retry.Attempts, cfg.Retry.Delay), nil
}

// UserRepository opens the configured credential store. The returned close
// function releases the database pool, if any.
func UserRepository(ctx context.Context, cfg *config.Config, store storage.BlobStore) (user.UserRepository, func(), error) {
	switch cfg.Credential.Store {
	case config.CredentialBlob:
		return blob.NewUserRepository(store), func() {}, nil
	case config.CredentialPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate credentials: %w", err)
		}
		slog.Info("Credential store ready", "store", "postgres", "host", cfg.Database.Host)
		return postgresql.NewUserRepository(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown credential store %q", cfg.Credential.Store)
	}
}
