package database

import (
	"time"
)

// Well-known reference ids seeded by Seed
const (
	RoleDirector uint32 = 1
	RoleActor    uint32 = 2
	RoleComposer uint32 = 3
)

const (
	StatusAnnounced      uint32 = 1
	StatusInProduction   uint32 = 2
	StatusPostProduction uint32 = 3
	StatusReleased       uint32 = 4
)

// Person represents someone credited on a movie
type Person struct {
	ID          uint32     `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"not null;index" json:"first_name"`
	LastName    string     `gorm:"not null;index" json:"last_name"`
	DateOfBirth time.Time  `gorm:"not null" json:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
}

func (Person) TableName() string { return "person" }

// FullName joins first and last name with a single space
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// PersonRole is the kind of credit a person holds on a movie
type PersonRole struct {
	ID          uint32 `gorm:"primaryKey" json:"id"`
	Description string `gorm:"not null" json:"description"`
}

func (PersonRole) TableName() string { return "person_roles" }

// MovieStatus is the production state of a movie
type MovieStatus struct {
	ID          uint32 `gorm:"primaryKey" json:"id"`
	Description string `gorm:"not null" json:"description"`
}

func (MovieStatus) TableName() string { return "movie_status" }

// Movie represents a film with its French and original titles
type Movie struct {
	ID            uint32      `gorm:"primaryKey" json:"id"`
	FrenchTitle   string      `gorm:"not null;index" json:"french_title"`
	OriginalTitle string      `gorm:"not null;index" json:"original_title"`
	StatusID      uint32      `gorm:"not null;index" json:"status_id"`
	Status        MovieStatus `gorm:"foreignKey:StatusID" json:"status"`
	StatusDate    *time.Time  `json:"status_date,omitempty"`
}

func (Movie) TableName() string { return "movie" }

// MoviePersons links a person to a movie under a role.
// A (movie, person, role) triple appears at most once.
type MoviePersons struct {
	ID       uint32     `gorm:"primaryKey" json:"id"`
	MovieID  uint32     `gorm:"not null;uniqueIndex:idx_movie_person_role" json:"movie_id"`
	PersonID uint32     `gorm:"not null;uniqueIndex:idx_movie_person_role;index" json:"person_id"`
	RoleID   uint32     `gorm:"not null;uniqueIndex:idx_movie_person_role;index" json:"role_id"`
	Movie    Movie      `gorm:"foreignKey:MovieID" json:"-"`
	Person   Person     `gorm:"foreignKey:PersonID" json:"-"`
	Role     PersonRole `gorm:"foreignKey:RoleID" json:"-"`
}

func (MoviePersons) TableName() string { return "movie_persons" }

// Models returns every catalog model in migration order
func Models() []interface{} {
	return []interface{}{
		&MovieStatus{},
		&PersonRole{},
		&Person{},
		&Movie{},
		&MoviePersons{},
	}
}
