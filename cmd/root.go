package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"shin5ok/simple-books-lookup/internal/catalog"
	"shin5ok/simple-books-lookup/internal/config"
	"shin5ok/simple-books-lookup/internal/database"
	"shin5ok/simple-books-lookup/pkg/logger"
)

type app struct {
	v   *viper.Viper
	cfg *config.Config
}

// NewRootCommand builds the bookslookup command tree. Running it without a
// subcommand serves HTTP.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:   "bookslookup",
		Short: "Book catalog lookup service",
		Long: `bookslookup keeps a small catalog of authors and books and serves a
search page that filters books by title, genre, author name or a date
written like "Mar. 15, 1983".`,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
		RunE:              a.runServe,
	}

	pf := root.PersistentFlags()
	pf.String("env-file", ".env", "dotenv file read before the environment")
	pf.String("connection-string", "", "database connection string (CONNECTION_STRING)")
	pf.String("db-driver", config.DriverPostgres, "database driver: postgres or sqlite (DB_DRIVER)")
	pf.String("log-level", "info", "log level (LOG_LEVEL)")
	pf.Bool("auto-migrate", true, "create or update tables on start (AUTO_MIGRATE)")
	root.Flags().String("port", "8080", "HTTP port (PORT)")

	root.AddCommand(
		a.serveCommand(),
		a.seedCommand(),
		a.migrateCommand(),
		a.deleteAuthorCommand(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	logger.InitWithWriter(cfg.Environment, cfg.LogLevel, cmd.ErrOrStderr())
	a.cfg = cfg
	return nil
}

// openCatalog connects to the configured store. The returned func closes it.
func (a *app) openCatalog() (*catalog.Catalog, func(), error) {
	db, err := database.Open(a.cfg.DBDriver, a.cfg.ConnectionString, logger.Gorm(a.cfg.LogLevel))
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { a.closeDB(db) }

	if a.cfg.AutoMigrate {
		if err := catalog.Migrate(db); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Debug("tables migrated")
	}
	return catalog.NewCatalog(db), closeDB, nil
}

func (a *app) closeDB(db *gorm.DB) {
	if err := database.Close(db); err != nil {
		logger.Error("close database", err)
	}
}
