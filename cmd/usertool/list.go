package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/auction1/pto-backend-go/internal/domain/auth"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthService(cmd.Context(), func(svc auth.AuthService) error {
				users, err := svc.ListUsers(cmd.Context())
				if err != nil {
					return commandErr(cmd, err)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tTITLE\tROLE\tFIRST LOGIN")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", u.Name, u.Title, u.Role, u.FirstLogin)
				}
				return w.Flush()
			})
		},
	}
}
