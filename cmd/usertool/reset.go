package main

import (
	"fmt"

	"github.com/auction1/pto-backend-go/internal/domain/auth"
	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	var req user.ResetPasswordRequest

	cmd := &cobra.Command{
		Use:   "reset <name>",
		Short: "Set a new initial password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return withAuthService(cmd.Context(), func(svc auth.AuthService) error {
				if err := svc.ResetPassword(cmd.Context(), req); err != nil {
					return commandErr(cmd, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", user.NormalizeName(req.Name))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Password, "password", "", "New initial password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
