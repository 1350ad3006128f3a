package service

import (
	"sync"
	"time"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
)

const dateLayout = "2006-01-02"

// SessionForm is the séance variant of the form controller. The slot fields
// and availability tracking delegate to an inner TimetableForm; what it adds
// is the dated fields, and the invariant that the weekday is a pure function
// of the session date. A day id written from outside is overwritten by the
// derived value on the next date-driven recompute.
type SessionForm struct {
	*TimetableForm

	mu                  sync.Mutex
	sessionDate         time.Time
	teacherID           int64
	supervisorID        int64
	evaluationGenerated bool
	period              string
	scoreMax            int
	duration            string
}

// NewSessionForm opens a create-mode session form.
func NewSessionForm(checker *AvailabilityService, academicYearID int64, debounceWait time.Duration) *SessionForm {
	return &SessionForm{TimetableForm: NewTimetableForm(checker, academicYearID, debounceWait)}
}

// SetSessionDate records the date and recomputes the weekday from it. The
// derived value always wins over whatever the day field held before.
func (f *SessionForm) SetSessionDate(date time.Time) {
	f.mu.Lock()
	f.sessionDate = date
	f.mu.Unlock()

	f.TimetableForm.SetDay(DeriveDay(date))
	f.TimetableForm.setDate(date.Format(dateLayout))
}

// SetDay on a session form does not accept the caller's value: with a date
// present the weekday is recomputed from it, so a disagreeing id is discarded.
func (f *SessionForm) SetDay(id int64) {
	f.mu.Lock()
	date := f.sessionDate
	f.mu.Unlock()

	if !date.IsZero() {
		id = DeriveDay(date)
	}
	f.TimetableForm.SetDay(id)
}

// SetTeacher picks the professeur.
func (f *SessionForm) SetTeacher(id int64) {
	f.mu.Lock()
	f.teacherID = id
	f.mu.Unlock()
}

// SetSupervisor picks the surveillant.
func (f *SessionForm) SetSupervisor(id int64) {
	f.mu.Lock()
	f.supervisorID = id
	f.mu.Unlock()
}

// SetEvaluation toggles evaluation generation and its parameters.
func (f *SessionForm) SetEvaluation(generated bool, period string, scoreMax int) {
	f.mu.Lock()
	f.evaluationGenerated = generated
	f.period = period
	f.scoreMax = scoreMax
	f.mu.Unlock()
}

// SetDuration records the HH:MM duration picker value.
func (f *SessionForm) SetDuration(hhmm string) {
	f.mu.Lock()
	f.duration = hhmm
	f.mu.Unlock()
}

// Draft assembles the full session draft from both layers.
func (f *SessionForm) Draft() models.SessionDraft {
	activity := f.TimetableForm.Draft()

	f.mu.Lock()
	defer f.mu.Unlock()
	return models.SessionDraft{
		ActivityDraft:       activity,
		SessionDate:         f.sessionDate,
		TeacherID:           f.teacherID,
		SupervisorID:        f.supervisorID,
		EvaluationGenerated: f.evaluationGenerated,
		Period:              f.period,
		ScoreMax:            f.scoreMax,
		Duration:            f.duration,
	}
}

// IsFormValid extends the activity gate with the session requireds.
func (f *SessionForm) IsFormValid() bool {
	f.mu.Lock()
	dateSet := !f.sessionDate.IsZero()
	teacherSet := f.teacherID != 0
	f.mu.Unlock()

	return dateSet && teacherSet && f.TimetableForm.IsFormValid()
}
