package catalog

import (
	"context"
	"fmt"
	"time"
)

const (
	SeedAuthorCount  = 10
	DefaultSeedBooks = 100

	minAuthorAge     = 25
	maxAuthorAge     = 80
	titleWords       = 4
	publishYearsBack = 10
)

// Genres are the labels the seeder draws from. Stored books may carry any
// genre text.
var Genres = []string{
	"History",
	"Thriller",
	"Fictional",
	"Non-Fictional",
	"Science-Fictional",
	"Adventure",
	"Dark",
	"Romance",
}

type SeedSummary struct {
	Authors int
	Books   int
}

func (s SeedSummary) String() string {
	return fmt.Sprintf("%d numbers of books are created with %d authors", s.Books, s.Authors)
}

type Seeder struct {
	catalog *Catalog
	fake    FakeData
	now     func() time.Time
}

func NewSeeder(c *Catalog, fake FakeData) *Seeder {
	return &Seeder{catalog: c, fake: fake, now: time.Now}
}

// Seed adds SeedAuthorCount new authors and n books spread randomly over
// them. Every call adds records; nothing is reused or rolled back, and the
// first store error is returned as is.
func (s *Seeder) Seed(ctx context.Context, n int) (SeedSummary, error) {
	if n < 0 {
		return SeedSummary{}, fmt.Errorf("seed: book count must not be negative, got %d", n)
	}

	authors := make([]Author, 0, SeedAuthorCount)
	for i := 0; i < SeedAuthorCount; i++ {
		dob := DateOf(s.fake.DateOfBirth(minAuthorAge, maxAuthorAge))
		author, err := s.catalog.RegisterAuthor(ctx, Author{
			Name:        s.fake.Name(),
			DateOfBirth: &dob,
		})
		if err != nil {
			return SeedSummary{Authors: len(authors)}, err
		}
		authors = append(authors, author)
	}

	today := time.Time(DateOf(s.now()))
	start := today.AddDate(-publishYearsBack, 0, 0)
	end := today.Add(24*time.Hour - time.Nanosecond)

	for i := 0; i < n; i++ {
		_, err := s.catalog.AddBook(ctx, Book{
			Title:       s.fake.Sentence(titleWords),
			AuthorID:    authors[s.fake.Pick(len(authors))].ID,
			Genre:       Genres[s.fake.Pick(len(Genres))],
			PublishDate: DateOf(s.fake.DateBetween(start, end)),
		})
		if err != nil {
			return SeedSummary{Authors: len(authors), Books: i}, err
		}
	}

	return SeedSummary{Authors: len(authors), Books: n}, nil
}
