package models

// EntityRef is the wire shape for every embedded entity on write. The backend
// treats libelle as display-only, so it is always serialised as null rather
// than round-tripping a possibly stale label.
type EntityRef struct {
	ID      int64   `json:"id"`
	Libelle *string `json:"libelle"`
}

// Ref builds the write-side reference for an entity id.
func Ref(id int64) EntityRef {
	return EntityRef{ID: id}
}

// Room is a bookable classroom supplied by the backend per slot query.
type Room struct {
	ID      int64  `json:"id"`
	Libelle string `json:"libelle"`
}

// Classe is a school class (e.g. "6e A").
type Classe struct {
	ID      int64  `json:"id"`
	Libelle string `json:"libelle"`
}

// SchoolDay is a weekday of the school timetable, id 1 (Monday) to 7 (Sunday).
type SchoolDay struct {
	ID      int64  `json:"id"`
	Libelle string `json:"libelle"`
}

// Subject is a taught discipline (matière), scoped to a class.
type Subject struct {
	ID      int64  `json:"id"`
	Libelle string `json:"libelle"`
}

// ActivityType distinguishes lessons, evaluations, and other slot usages.
type ActivityType struct {
	ID      int64  `json:"id"`
	Libelle string `json:"libelle"`
}

// SchoolYear is an academic year (année scolaire).
type SchoolYear struct {
	ID      int64  `json:"id"`
	Libelle string `json:"libelle"`
}

// Personnel is a staff member usable as teacher or supervisor on a session.
type Personnel struct {
	ID      int64  `json:"id"`
	Nom     string `json:"nom"`
	Prenom  string `json:"prenom"`
	Libelle string `json:"libelle,omitempty"`
}

// ReferenceSet holds the already-fetched collections request building resolves
// foreign keys against. Form validity must guarantee every id is present here
// before a payload is built.
type ReferenceSet struct {
	Classes       []Classe
	Days          []SchoolDay
	Subjects      []Subject
	Rooms         []Room
	ActivityTypes []ActivityType
	Personnel     []Personnel
	Years         []SchoolYear
}
