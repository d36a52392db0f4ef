package catalog

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// FakeData supplies the synthetic values the seeder writes.
type FakeData interface {
	Name() string
	// DateOfBirth returns a birth date for someone aged between minAge and
	// maxAge today.
	DateOfBirth(minAge, maxAge int) time.Time
	Sentence(words int) string
	DateBetween(start, end time.Time) time.Time
	// Pick returns a uniformly random index in [0, n).
	Pick(n int) int
}

type gofakeitData struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewFaker returns FakeData backed by gofakeit. A zero seed draws a random
// one, any other seed makes the sequence reproducible.
func NewFaker(seed int64) FakeData {
	return &gofakeitData{faker: gofakeit.New(seed), now: time.Now}
}

func (g *gofakeitData) Name() string {
	return g.faker.Name()
}

func (g *gofakeitData) DateOfBirth(minAge, maxAge int) time.Time {
	today := time.Time(DateOf(g.now()))
	latest := today.AddDate(-minAge, 0, 0)
	earliest := today.AddDate(-(maxAge + 1), 0, 1)
	return g.DateBetween(earliest, latest)
}

func (g *gofakeitData) Sentence(words int) string {
	return g.faker.Sentence(words)
}

func (g *gofakeitData) DateBetween(start, end time.Time) time.Time {
	if !end.After(start) {
		return time.Time(DateOf(start))
	}
	return time.Time(DateOf(g.faker.DateRange(start, end).UTC()))
}

func (g *gofakeitData) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return g.faker.IntRange(0, n-1)
}
