package main

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/config"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	serviceAuth "github.com/cmlabs-hris/timesheet-backend-go/internal/service/auth"
	"github.com/spf13/cobra"
)

var (
	useraddCmd = &cobra.Command{
		Use:   "useradd",
		Short: "Create a user account",
		Long:  `Create a user account. The role is fixed at creation and cannot be changed later.`,
		RunE:  runUseradd,
	}
	newUser user.CreateUserRequest
)

func init() {
	flags := useraddCmd.Flags()
	flags.StringVar(&newUser.Name, "name", "", "display name")
	flags.StringVar(&newUser.Email, "email", "", "login email")
	flags.StringVar(&newUser.Password, "password", "", "login password (at least 8 characters)")
	flags.StringVar(&newUser.Role, "role", string(user.RoleUser), "user or admin")
	flags.BoolVar(&newUser.Verified, "verified", false, "mark the email address as verified")
	_ = useraddCmd.MarkFlagRequired("name")
	_ = useraddCmd.MarkFlagRequired("email")
	_ = useraddCmd.MarkFlagRequired("password")
}

func runUseradd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("useradd needs DB_DRIVER=%s", config.DriverPostgres)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	authService := serviceAuth.NewAuthService(st.users, jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, false))
	created, err := authService.CreateUser(cmd.Context(), newUser, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s, verified=%t)\n", created.Role, created.Email, created.ID, created.EmailVerified)
	return nil
}
