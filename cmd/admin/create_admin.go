package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"jobly/internal/auth"
	"jobly/internal/store"
)

const adminPasswordBytes = 24

type adminOptions struct {
	username  string
	firstName string
	lastName  string
	email     string
}

var adminOpts adminOptions

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "创建管理员账号，随机初始密码仅显示一次",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		pool, err := openPool(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		authService, err := auth.NewAuthService(cfg.Auth.SecretKey, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)
		if err != nil {
			return fmt.Errorf("init auth service: %w", err)
		}

		return createAdmin(cmd.Context(), store.NewUsers(pool, authService), adminOpts, cmd.OutOrStdout())
	},
}

func init() {
	flags := createAdminCmd.Flags()
	flags.StringVar(&adminOpts.username, "username", "", "管理员用户名（必填）")
	flags.StringVar(&adminOpts.email, "email", "", "管理员邮箱（必填）")
	flags.StringVar(&adminOpts.firstName, "first-name", "Admin", "名")
	flags.StringVar(&adminOpts.lastName, "last-name", "Admin", "姓")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(createAdminCmd)
}

type userRegistrar interface {
	Register(ctx context.Context, data store.NewUser) (store.User, error)
}

func createAdmin(ctx context.Context, users userRegistrar, opts adminOptions, out io.Writer) error {
	username := strings.TrimSpace(opts.username)
	if username == "" {
		return errors.New("missing required flag: --username")
	}
	email := strings.TrimSpace(opts.email)
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email %q", opts.email)
	}

	password, err := auth.GeneratePassword(adminPasswordBytes)
	if err != nil {
		return err
	}

	user, err := users.Register(ctx, store.NewUser{
		Username:  username,
		Password:  password,
		FirstName: opts.firstName,
		LastName:  opts.lastName,
		Email:     email,
		IsAdmin:   true,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Fprintf(out, "已创建管理员账号：\n")
	fmt.Fprintf(out, "用户名: %s\n", user.Username)
	fmt.Fprintf(out, "初始密码: %s\n", password)
	fmt.Fprintf(out, "提示：该密码仅显示一次，请登录后通过 PATCH /users/%s 修改。\n", user.Username)
	return nil
}
