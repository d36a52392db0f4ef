package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shin5ok/simple-books-lookup/internal/catalog"
	"shin5ok/simple-books-lookup/pkg/logger"
)

func (a *app) seedCommand() *cobra.Command {
	var (
		n    int
		seed int64
	)

	c := &cobra.Command{
		Use:   "seed",
		Short: "Fill the catalog with fake authors and books",
		Long: fmt.Sprintf(`seed adds %d fake authors and --books fake books to the catalog.
Every run adds new records.`, catalog.SeedAuthorCount),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeDB, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer closeDB()

			summary, err := catalog.NewSeeder(store, catalog.NewFaker(seed)).Seed(cmd.Context(), n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)

			authors, err := store.CountAuthors(cmd.Context())
			if err != nil {
				return err
			}
			books, err := store.CountBooks(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("catalog seeded", map[string]interface{}{
				"created_books": summary.Books,
				"total_authors": authors,
				"total_books":   books,
			})
			return nil
		},
	}
	c.Flags().IntVarP(&n, "books", "n", catalog.DefaultSeedBooks, "number of books to create")
	c.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 picks one")
	return c
}
