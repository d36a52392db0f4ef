package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shin5ok/simple-books-lookup/internal/catalog"
	"shin5ok/simple-books-lookup/internal/database"
	"shin5ok/simple-books-lookup/pkg/logger"
)

func (a *app) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the authors and books tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Open(a.cfg.DBDriver, a.cfg.ConnectionString, logger.Gorm(a.cfg.LogLevel))
			if err != nil {
				return err
			}
			defer a.closeDB(db)

			if err := catalog.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "tables are up to date")
			return nil
		},
	}
}

func (a *app) deleteAuthorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-author ID",
		Short: "Delete an author together with all of their books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer closeDB()

			removed, err := store.DeleteAuthor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted author %s and %d books\n", args[0], removed)
			return nil
		},
	}
}
