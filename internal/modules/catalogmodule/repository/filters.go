package repository

import (
	"strings"

	"github.com/mantonx/moviegraph/internal/database"
	"gorm.io/gorm"
)

// PersonFilter selects persons by equality. Nil fields are ignored.
type PersonFilter struct {
	ID        *uint32
	FirstName *string
	LastName  *string
}

func (f PersonFilter) apply(db *gorm.DB) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.FirstName != nil {
		db = db.Where("first_name = ?", *f.FirstName)
	}
	if f.LastName != nil {
		db = db.Where("last_name = ?", *f.LastName)
	}
	return db
}

// MovieFilter selects movies by equality. Status matches the status description.
type MovieFilter struct {
	ID            *uint32
	FrenchTitle   *string
	OriginalTitle *string
	Status        *string
}

// apply adds the filter's conditions to db. fresh is used to build the status subquery.
func (f MovieFilter) apply(db, fresh *gorm.DB) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.FrenchTitle != nil {
		db = db.Where("french_title = ?", *f.FrenchTitle)
	}
	if f.OriginalTitle != nil {
		db = db.Where("original_title = ?", *f.OriginalTitle)
	}
	if f.Status != nil {
		statusIDs := fresh.Model(&database.MovieStatus{}).Select("id").Where("description = ?", *f.Status)
		db = db.Where("status_id IN (?)", statusIDs)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching q literally anywhere in a
// lowercased value
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
