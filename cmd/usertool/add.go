package main

import (
	"fmt"

	"github.com/auction1/pto-backend-go/internal/domain/auth"
	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var req user.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an account that must change its password at first login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return withAuthService(cmd.Context(), func(svc auth.AuthService) error {
				created, err := svc.CreateUser(cmd.Context(), req)
				if err != nil {
					return commandErr(cmd, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s, %s)\n", created.Name, created.Role, created.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&req.Title, "title", "", "Job title shown in the portal")
	cmd.Flags().StringVar(&req.Role, "role", string(user.RoleUser), "Role: user or admin")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
