package main

import (
	"context"
	"fmt"

	"github.com/auction1/pto-backend-go/internal/bootstrap"
	"github.com/auction1/pto-backend-go/internal/config"
	"github.com/auction1/pto-backend-go/internal/domain/auth"
	"github.com/auction1/pto-backend-go/internal/pkg/jwt"
	serviceAuth "github.com/auction1/pto-backend-go/internal/service/auth"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "usertool",
		Short: "Manage PTO portal accounts",
		Long: `usertool creates accounts, resets initial passwords and lists users
in the credential store configured by STORAGE_TYPE and CREDENTIAL_STORE.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newListCmd())
	return rootCmd
}

// withAuthService opens the configured credential store for one command.
func withAuthService(ctx context.Context, fn func(auth.AuthService) error) error {
	cfg, err := config.LoadStores()
	if err != nil {
		return err
	}

	store, err := bootstrap.BlobStore(ctx, cfg)
	if err != nil {
		return err
	}
	userRepo, closeUsers, err := bootstrap.UserRepository(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer closeUsers()

	// Tokens are never issued here; the service only needs a signer to exist.
	return fn(serviceAuth.NewAuthService(userRepo, jwt.NewJWTService("usertool", "1m")))
}

func commandErr(cmd *cobra.Command, err error) error {
	return fmt.Errorf("%s: %w", cmd.Name(), err)
}
