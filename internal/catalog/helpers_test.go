package catalog

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shin5ok/simple-books-lookup/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", "file::memory:", logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, Migrate(db))
	return db
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	return NewCatalog(newTestDB(t))
}

func mustAuthor(t *testing.T, c *Catalog, name string, dob *datatypes.Date) Author {
	t.Helper()
	a, err := c.RegisterAuthor(context.Background(), Author{Name: name, DateOfBirth: dob})
	require.NoError(t, err)
	return a
}

func mustBook(t *testing.T, c *Catalog, author Author, title, genre string, published datatypes.Date) Book {
	t.Helper()
	b, err := c.AddBook(context.Background(), Book{
		Title:       title,
		AuthorID:    author.ID,
		Genre:       genre,
		PublishDate: published,
	})
	require.NoError(t, err)
	return b
}

func datePtr(d datatypes.Date) *datatypes.Date {
	return &d
}

func titles(books []Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	sort.Strings(out)
	return out
}

// allBooks lists the catalog through an empty search.
func allBooks(t *testing.T, c *Catalog) []Book {
	t.Helper()
	res, err := c.SearchBooks(context.Background(), "")
	require.NoError(t, err)
	return res.Books
}
