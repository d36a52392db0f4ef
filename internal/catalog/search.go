package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"
)

const (
	// SearchDateLayout is the only date text a search understands,
	// e.g. "Mar. 15, 1983". The day may have one or two digits.
	SearchDateLayout = "Jan. 2, 2006"
	// DisplayDateLayout renders dates so they can be pasted back into a search.
	DisplayDateLayout = "Jan. 02, 2006"

	bookOrder = "books.created_at, books.id"
)

type SearchResult struct {
	Search      string `json:"search"`
	DateMatched bool   `json:"date_matched"`
	Books       []Book `json:"books"`
}

// ParseSearchDate reads s as a SearchDateLayout date. It reports false for
// anything else, which only turns off the date predicates of a search.
func ParseSearchDate(s string) (time.Time, bool) {
	t, err := time.Parse(SearchDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return time.Time(DateOf(t)), true
}

var (
	titleColumn       = clause.Column{Table: "books", Name: "title"}
	genreColumn       = clause.Column{Table: "books", Name: "genre"}
	publishDateColumn = clause.Column{Table: "books", Name: "publish_date"}
	authorNameColumn  = clause.Column{Table: "Author", Name: "name"}
	authorDOBColumn   = clause.Column{Table: "Author", Name: "date_of_birth"}
)

// BookFilter builds the WHERE expression for search over books joined to
// their Author. It returns nil when search is empty.
//
// Title, genre and author name match as case-insensitive substrings. When
// search is also a date, books published that day and books whose author was
// born that day match too.
func BookFilter(search string) clause.Expression {
	if search == "" {
		return nil
	}

	needle := "%" + escapeLike(search) + "%"
	exprs := []clause.Expression{
		containsFold(titleColumn, needle),
		containsFold(genreColumn, needle),
		containsFold(authorNameColumn, needle),
	}
	if date, ok := ParseSearchDate(search); ok {
		day := DateOf(date)
		exprs = append(exprs,
			clause.Eq{Column: publishDateColumn, Value: day},
			clause.Eq{Column: authorDOBColumn, Value: day},
		)
	}
	return clause.Or(exprs...)
}

// containsFold folds both sides in SQL so the column and the pattern go
// through the same LOWER.
func containsFold(col clause.Column, pattern string) clause.Expression {
	return clause.Expr{SQL: `LOWER(?) LIKE LOWER(?) ESCAPE '\'`, Vars: []interface{}{col, pattern}}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// SearchBooks returns the books matching search with their authors loaded.
// An empty search returns every book. Malformed input never errors; at worst
// nothing matches.
func (c *Catalog) SearchBooks(ctx context.Context, search string) (SearchResult, error) {
	result := SearchResult{Search: search, Books: []Book{}}

	query := c.db.WithContext(ctx).Joins("Author")
	if filter := BookFilter(search); filter != nil {
		query = query.Where(filter)
		_, result.DateMatched = ParseSearchDate(search)
	}

	if err := query.Order(bookOrder).Find(&result.Books).Error; err != nil {
		return SearchResult{}, fmt.Errorf("search books: %w", err)
	}
	return result, nil
}
