// Package dbtest opens seeded in-memory catalogs for tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviegraph/internal/config"
	"github.com/mantonx/moviegraph/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a migrated in-memory sqlite database holding only reference data
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := database.Open(config.DatabaseFullConfig{Type: "sqlite", DatabasePath: ":memory:"}, hclog.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(conn) })

	require.NoError(t, database.Migrate(conn))
	require.NoError(t, database.Seed(context.Background(), conn))
	return conn
}

// Catalog is the fixture set loaded by OpenWithCatalog
type Catalog struct {
	Varda, Demy, Legrand, Deneuve, Marchand database.Person
	Parapluies, Cleo, PeauDAne, CentPourCent database.Movie
}

// OpenWithCatalog returns a database holding reference data plus a small catalog:
//
//	Les Parapluies de Cherbourg  directed by Demy, composed by Legrand, starring Deneuve
//	Cléo de 5 à 7                directed by Varda, composed by Legrand, starring Marchand and Legrand
//	Peau d'âne                   directed by Demy, composed by Legrand, starring Deneuve
//	Cent pour cent               announced, no credits
func OpenWithCatalog(t testing.TB) (*gorm.DB, *Catalog) {
	t.Helper()
	conn := Open(t)

	c := &Catalog{
		Varda:    person("Agnès", "Varda", date(1928, 5, 30), date(2019, 3, 29)),
		Demy:     person("Jacques", "Demy", date(1931, 6, 5), date(1990, 10, 27)),
		Legrand:  person("Michel", "Legrand", date(1932, 2, 24), date(2019, 1, 26)),
		Deneuve:  person("Catherine", "Deneuve", date(1943, 10, 22), time.Time{}),
		Marchand: person("Corinne", "Marchand", date(1935, 12, 4), time.Time{}),

		Parapluies:   movie("Les Parapluies de Cherbourg", "Les Parapluies de Cherbourg", database.StatusReleased, date(1964, 2, 19)),
		Cleo:         movie("Cléo de 5 à 7", "Cleo from 5 to 7", database.StatusReleased, date(1962, 4, 11)),
		PeauDAne:     movie("Peau d'âne", "Donkey Skin", database.StatusReleased, date(1970, 12, 20)),
		CentPourCent: movie("Cent pour cent", "100% Legrand", database.StatusAnnounced, time.Time{}),
	}

	for _, p := range []*database.Person{&c.Varda, &c.Demy, &c.Legrand, &c.Deneuve, &c.Marchand} {
		require.NoError(t, conn.Create(p).Error)
	}
	for _, m := range []*database.Movie{&c.Parapluies, &c.Cleo, &c.PeauDAne, &c.CentPourCent} {
		require.NoError(t, conn.Omit("Status").Create(m).Error)
	}

	credits := []database.MoviePersons{
		{MovieID: c.Parapluies.ID, PersonID: c.Demy.ID, RoleID: database.RoleDirector},
		{MovieID: c.Parapluies.ID, PersonID: c.Legrand.ID, RoleID: database.RoleComposer},
		{MovieID: c.Parapluies.ID, PersonID: c.Deneuve.ID, RoleID: database.RoleActor},
		{MovieID: c.Cleo.ID, PersonID: c.Varda.ID, RoleID: database.RoleDirector},
		{MovieID: c.Cleo.ID, PersonID: c.Legrand.ID, RoleID: database.RoleComposer},
		{MovieID: c.Cleo.ID, PersonID: c.Marchand.ID, RoleID: database.RoleActor},
		{MovieID: c.Cleo.ID, PersonID: c.Legrand.ID, RoleID: database.RoleActor},
		{MovieID: c.PeauDAne.ID, PersonID: c.Demy.ID, RoleID: database.RoleDirector},
		{MovieID: c.PeauDAne.ID, PersonID: c.Legrand.ID, RoleID: database.RoleComposer},
		{MovieID: c.PeauDAne.ID, PersonID: c.Deneuve.ID, RoleID: database.RoleActor},
	}
	require.NoError(t, conn.Omit("Movie", "Person", "Role").Create(&credits).Error)

	return conn, c
}

func person(first, last string, born, died time.Time) database.Person {
	p := database.Person{FirstName: first, LastName: last, DateOfBirth: born}
	if !died.IsZero() {
		p.DateOfDeath = &died
	}
	return p
}

func movie(french, original string, statusID uint32, statusDate time.Time) database.Movie {
	m := database.Movie{FrenchTitle: french, OriginalTitle: original, StatusID: statusID}
	if !statusDate.IsZero() {
		m.StatusDate = &statusDate
	}
	return m
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
