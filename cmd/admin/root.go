package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"jobly/internal/config"
	"jobly/internal/database"
)

var (
	dbHost  string
	dbPort  int
	dbName  string
	dbUser  string
	dbPass  string
	dbSSL   string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jobly-admin",
	Short: "Jobly 运维工具：初始化表结构、创建管理员账号",
	Long: `jobly-admin reads the same environment as the API server (POSTGRES_DB,
POSTGRES_USER, DATABASE_HOST, SECRET_KEY, BCRYPT_WORK_FACTOR, ...).
Database flags override the environment.`,
	SilenceUsage: true,
}

// Execute 运行根命令。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dbHost, "db-host", "", "数据库 Host（默认读 DATABASE_HOST）")
	flags.IntVar(&dbPort, "db-port", 0, "数据库 Port（默认读 DATABASE_PORT）")
	flags.StringVar(&dbName, "db-name", "", "数据库名（默认读 POSTGRES_DB）")
	flags.StringVar(&dbUser, "db-user", "", "数据库用户（默认读 POSTGRES_USER）")
	flags.StringVar(&dbPass, "db-password", "", "数据库密码（默认读 POSTGRES_PASSWORD）")
	flags.StringVar(&dbSSL, "db-sslmode", "", "数据库 SSLMODE（默认读 DATABASE_SSLMODE）")
	flags.BoolVarP(&verbose, "verbose", "v", false, "输出 SQL 调试日志")
}

// loadConfig 读取环境配置并用命令行参数覆盖数据库连接项。
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	overrideDatabase(&cfg.Database)
	return cfg, nil
}

func overrideDatabase(d *config.DatabaseConfig) {
	if dbHost != "" {
		d.Host = dbHost
	}
	if dbPort > 0 {
		d.Port = dbPort
	}
	if dbName != "" {
		d.Name = dbName
	}
	if dbUser != "" {
		d.User = dbUser
	}
	if dbPass != "" {
		d.Password = dbPass
	}
	if dbSSL != "" {
		d.SSLMode = dbSSL
	}
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	logger := config.LogConfig{Level: "debug", Format: cfg.Log.Format}.NewLogger(w)

	pool, err := database.InitDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	logger.Debug("database connection ready", slog.String("host", cfg.Database.Host))
	return pool, nil
}
