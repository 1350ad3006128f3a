package models

// RawActivity is an activity exactly as the backend returns it. Depending on
// the endpoint the foreign keys arrive as flat ids, nested objects, or only
// inside the raw_data blob, so edit hydration probes all three in that order.
type RawActivity struct {
	ID        int64  `json:"id"`
	HeureDeb  string `json:"heureDeb"`
	HeureFin  string `json:"heureFin"`
	Date      string `json:"date,omitempty"`

	ClasseID       *int64 `json:"classeId,omitempty"`
	JourID         *int64 `json:"jourId,omitempty"`
	MatiereID      *int64 `json:"matiereId,omitempty"`
	SalleID        *int64 `json:"salleId,omitempty"`
	TypeActiviteID *int64 `json:"typeActiviteId,omitempty"`

	Classe       *Classe       `json:"classe,omitempty"`
	Jour         *SchoolDay    `json:"jour,omitempty"`
	Matiere      *Subject      `json:"matiere,omitempty"`
	Salle        *Room         `json:"salle,omitempty"`
	TypeActivite *ActivityType `json:"typeActivite,omitempty"`

	RawData *RawActivityData `json:"raw_data,omitempty"`
}

// RawActivityData mirrors the nested objects some endpoints bury one level
// deeper.
type RawActivityData struct {
	Classe       *Classe       `json:"classe,omitempty"`
	Jour         *SchoolDay    `json:"jour,omitempty"`
	Matiere      *Subject      `json:"matiere,omitempty"`
	Salle        *Room         `json:"salle,omitempty"`
	TypeActivite *ActivityType `json:"typeActivite,omitempty"`
}

// RawSession is a séance as the backend returns it after a save.
type RawSession struct {
	RawActivity

	Professeur  *Personnel `json:"professeur,omitempty"`
	Surveillant *Personnel `json:"surveillant,omitempty"`
}

// ActivityPayload is the create/update wire format for saveActivite. Every
// embedded reference carries a null libelle.
type ActivityPayload struct {
	ID           int64     `json:"id,omitempty"`
	Classe       EntityRef `json:"classe"`
	Jour         EntityRef `json:"jour"`
	Matiere      EntityRef `json:"matiere"`
	Salle        EntityRef `json:"salle"`
	TypeActivite EntityRef `json:"typeActivite"`
	Annee        EntityRef `json:"annee"`
	HeureDeb     string    `json:"heureDeb"`
	HeureFin     string    `json:"heureFin"`
}

// EvaluationPayload is embedded on every session save. The backend schema
// requires the key even when no evaluation is generated, in which case the
// fields are zeroed.
type EvaluationPayload struct {
	Generated bool   `json:"generated"`
	Periode   string `json:"periode"`
	NoteSur   int    `json:"noteSur"`
	Duree     int    `json:"duree"`
	Date      string `json:"date"`
}

// SessionPayload is the wire format for saveAndDisplay.
type SessionPayload struct {
	ActivityPayload

	Date        string            `json:"date"`
	Professeur  EntityRef         `json:"professeur"`
	Surveillant EntityRef         `json:"surveillant"`
	Duree       int               `json:"duree"` // total minutes
	Evaluation  EvaluationPayload `json:"evaluation"`
}
