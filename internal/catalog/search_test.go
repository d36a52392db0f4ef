package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParseSearchDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Mar. 15, 1983", "1983-03-15", true},
		{"Jan. 05, 1999", "1999-01-05", true},
		{"Jan. 5, 1999", "1999-01-05", true},
		{"mar. 03, 1990", "1990-03-03", true},
		{"Mar.  5, 1983", "1983-03-05", true},
		{"  Dec. 31, 2000", "", false},
		{"Dec. 31, 2000 ", "", false},
		{"March 15, 1983", "", false},
		{"Mar 15, 1983", "", false},
		{"1983-03-15", "", false},
		{"Feb. 30, 2001", "", false},
		{"Mar. 15, 83", "", false},
		{"", "", false},
		{"Thriller", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSearchDate(tt.in)
			require.Equal(t, tt.ok, ok)
			if !ok {
				assert.True(t, got.IsZero())
				return
			}
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestBookFilterSQL(t *testing.T) {
	db := newTestDB(t)
	dry := db.Session(&gorm.Session{DryRun: true})

	assert.Nil(t, BookFilter(""))

	// sqlite quotes identifiers with backticks
	stmt := dry.Joins("Author").Where(BookFilter("50%_off")).Find(&[]Book{}).Statement
	sql := stmt.SQL.String()
	assert.Contains(t, sql, "LOWER(`books`.`title`) LIKE LOWER(?) ESCAPE '\\'")
	assert.Contains(t, sql, "LOWER(`books`.`genre`) LIKE LOWER(?)")
	assert.Contains(t, sql, "LOWER(`Author`.`name`) LIKE LOWER(?)")
	assert.Contains(t, sql, " OR ")
	assert.NotContains(t, sql, "`publish_date` =")
	assert.NotContains(t, sql, "`date_of_birth` =")
	assert.Contains(t, stmt.Vars, `%50\%\_off%`)

	// the pattern keeps its case, LOWER in SQL folds it
	stmt = dry.Joins("Author").Where(BookFilter("Émile")).Find(&[]Book{}).Statement
	assert.Contains(t, stmt.Vars, "%Émile%")

	stmt = dry.Joins("Author").Where(BookFilter("Mar. 15, 1983")).Find(&[]Book{}).Statement
	sql = stmt.SQL.String()
	assert.Contains(t, sql, "`books`.`publish_date` = ?")
	assert.Contains(t, sql, "`Author`.`date_of_birth` = ?")
}

type searchFixture struct {
	catalog *Catalog
	le      Author
	wolfe   Author
	hidden  Author

	earthsea Book
	shadow   Book
	claw     Book
	quiet    Book
	zola     Book
}

func newSearchFixture(t *testing.T) searchFixture {
	t.Helper()
	c := newTestCatalog(t)

	f := searchFixture{catalog: c}
	f.le = mustAuthor(t, c, "Ursula Le Guin", datePtr(NewDate(1929, time.October, 21)))
	f.wolfe = mustAuthor(t, c, "Gene Wolfe", datePtr(NewDate(1931, time.May, 7)))
	f.hidden = mustAuthor(t, c, "Anonymous", nil)
	emile := mustAuthor(t, c, "Émile Zola", nil)

	f.earthsea = mustBook(t, c, f.le, "A Wizard of Earthsea", "Adventure", NewDate(1968, time.November, 1))
	f.shadow = mustBook(t, c, f.wolfe, "The Shadow of the Torturer", "Science-Fictional", NewDate(1980, time.May, 1))
	f.claw = mustBook(t, c, f.wolfe, "The Claw of the Conciliator", "Dark Thriller", NewDate(1981, time.March, 15))
	f.quiet = mustBook(t, c, f.hidden, "100% Quiet_Place", "Romance", NewDate(1929, time.October, 21))
	f.zola = mustBook(t, c, emile, "Thérèse Raquin", "Ÿouth", NewDate(1867, time.December, 1))
	return f
}

func (f searchFixture) search(t *testing.T, q string) SearchResult {
	t.Helper()
	res, err := f.catalog.SearchBooks(context.Background(), q)
	require.NoError(t, err)
	return res
}

func TestSearchEmptyReturnsEverything(t *testing.T) {
	f := newSearchFixture(t)

	res := f.search(t, "")
	assert.Equal(t, "", res.Search)
	assert.False(t, res.DateMatched)
	assert.Equal(t, titles([]Book{f.earthsea, f.shadow, f.claw, f.quiet, f.zola}), titles(res.Books))

	total, err := f.catalog.CountBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Books, int(total))
}

func TestSearchTextPredicates(t *testing.T) {
	f := newSearchFixture(t)

	tests := []struct {
		name  string
		query string
		want  []Book
	}{
		{"title substring", "earthsea", []Book{f.earthsea}},
		{"title mixed case", "tHE sHaDoW", []Book{f.shadow}},
		{"genre substring", "thriller", []Book{f.claw}},
		{"genre shared prefix", "fiction", []Book{f.shadow}},
		{"author name", "WOLFE", []Book{f.shadow, f.claw}},
		{"author name part", "guin", []Book{f.earthsea}},
		{"across fields", "the", []Book{f.shadow, f.claw}},
		{"percent is literal", "100%", []Book{f.quiet}},
		{"underscore is literal", "t_p", []Book{f.quiet}},
		{"wildcard only matches literally", "%", []Book{f.quiet}},
		{"accented author name", "Émile", []Book{f.zola}},
		{"accented title", "Thérèse", []Book{f.zola}},
		{"accented genre", "Ÿouth", []Book{f.zola}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.search(t, tt.query)
			assert.Equal(t, tt.query, res.Search)
			assert.Equal(t, titles(tt.want), titles(res.Books))
		})
	}
}

func TestSearchCarriesAuthor(t *testing.T) {
	f := newSearchFixture(t)

	res := f.search(t, "claw")
	require.Len(t, res.Books, 1)
	assert.Equal(t, "Gene Wolfe", res.Books[0].Author.Name)
	assert.Equal(t, f.wolfe.ID, res.Books[0].Author.ID)
}

func TestSearchByDate(t *testing.T) {
	f := newSearchFixture(t)

	res := f.search(t, "Mar. 15, 1981")
	assert.True(t, res.DateMatched)
	assert.Equal(t, titles([]Book{f.claw}), titles(res.Books), "publish date")

	res = f.search(t, "May. 07, 1931")
	assert.True(t, res.DateMatched)
	assert.Equal(t, titles([]Book{f.shadow, f.claw}), titles(res.Books), "author birth date")

	// same day is one author's birthday and another book's publish date
	res = f.search(t, "Oct. 21, 1929")
	assert.Equal(t, titles([]Book{f.earthsea, f.quiet}), titles(res.Books))
}

func TestSearchDateWithoutMatchesIsEmpty(t *testing.T) {
	f := newSearchFixture(t)

	res := f.search(t, "Mar. 03, 1990")
	assert.True(t, res.DateMatched)
	assert.Empty(t, res.Books)
	assert.NotNil(t, res.Books)
}

func TestSearchBadDateFallsBackToText(t *testing.T) {
	f := newSearchFixture(t)

	// a valid day in the wrong format must not hit the date predicates
	res := f.search(t, "1981-03-15")
	assert.False(t, res.DateMatched)
	assert.Empty(t, res.Books)

	res = f.search(t, "March 15, 1981")
	assert.False(t, res.DateMatched)
	assert.Empty(t, res.Books)
}
