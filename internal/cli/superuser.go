package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"backoffice/internal/apperr"
	"backoffice/internal/obs"
	"backoffice/internal/repository"
	"backoffice/internal/service"
	"backoffice/internal/session"
)

func newCreateSuperuserCommand() *cobra.Command {
	var req service.CreateSuperuserRequest

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an account that holds every permission",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			repos := repository.NewRepositories(rt.db)
			auth := service.NewAuthService(repos, session.NewDBStore(repos.Sessions), rt.cfg.Auth, obs.NewMetrics())
			me, err := auth.CreateSuperuser(cmd.Context(), req)
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created.\n", me.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address used to sign in")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password; must satisfy the password policy")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// describe spells out field errors, which AppError.Error leaves out.
func describe(err error) error {
	appErr, ok := apperr.As(err)
	if !ok || len(appErr.Fields) == 0 {
		return err
	}
	lines := make([]string, 0, len(appErr.Fields))
	for field, msg := range appErr.Fields {
		lines = append(lines, field+": "+msg)
	}
	sort.Strings(lines)
	return fmt.Errorf("%s\n  %s", appErr.Message, strings.Join(lines, "\n  "))
}
