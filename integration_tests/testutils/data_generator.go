package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator produces deterministic fake data for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a generator with an optional seed. Without a
// seed the generator varies run to run.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s))}
}

// JudgeName returns a (last, first) name pair.
func (g *TestDataGenerator) JudgeName() (string, string) {
	return g.faker.LastName(), g.faker.FirstName()
}

// Email returns a plausible contact address.
func (g *TestDataGenerator) Email() string {
	return g.faker.Email()
}

// ConventionName returns a plausible convention title.
func (g *TestDataGenerator) ConventionName() string {
	return g.faker.City() + " Convention"
}
