package service

import (
	"context"
	"sync"
	"time"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
	"github.com/soumsmith/vie-ecole-gateway/pkg/debounce"
)

// FormMode distinguishes creating a new booking from editing an existing one.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

// TimetableForm keeps an activity draft and its availability state consistent
// as fields change. In create mode every relevant edit re-arms a debounced
// availability check; a pending check is replaced on the next edit and a check
// that resolves after its inputs changed is discarded, so the published state
// always matches the latest inputs. Submission is serialized by an in-flight
// flag; there is no retry and no idempotency key, so a transport-level retry
// could double-submit — a known backend contract gap.
type TimetableForm struct {
	mu sync.Mutex

	mode           FormMode
	draft          models.ActivityDraft
	dateISO        string
	academicYearID int64
	availability   models.AvailabilityState
	submitting     bool

	checker      *AvailabilityService
	deb          *debounce.Debouncer
	debounceWait time.Duration
	checkTimeout time.Duration
}

// NewTimetableForm opens a create-mode form. A positive debounceWait arms the
// automatic availability effect on every slot edit; a non-positive one leaves
// confirmation to explicit ConfirmAvailability calls, which is what the
// request-handling services use.
func NewTimetableForm(checker *AvailabilityService, academicYearID int64, debounceWait time.Duration) *TimetableForm {
	return &TimetableForm{
		mode:           ModeCreate,
		academicYearID: academicYearID,
		checker:        checker,
		deb:            debounce.New(),
		debounceWait:   debounceWait,
		checkTimeout:   10 * time.Second,
	}
}

// HydrateForEdit populates the draft once from an existing activity and
// switches to edit mode. editDelay defers the room fetch so the picker gets
// candidates without going through the create-mode auto-check.
func (f *TimetableForm) HydrateForEdit(raw models.RawActivity, editDelay time.Duration) {
	f.mu.Lock()
	f.mode = ModeEdit
	f.draft = HydrateActivityDraft(raw)
	current := currentRoom(raw)
	query := f.queryLocked()
	f.mu.Unlock()

	fetch := func() {
		ctx, cancel := context.WithTimeout(context.Background(), f.checkTimeout)
		defer cancel()
		state := f.checker.CheckForEdit(ctx, query, current)
		f.mu.Lock()
		f.availability = state
		f.mu.Unlock()
	}
	if editDelay <= 0 {
		fetch()
		return
	}
	f.deb.Schedule(editDelay, fetch)
}

// SetClass changes the class. Subjects and rooms are class-scoped, so both
// selections go stale and are cleared.
func (f *TimetableForm) SetClass(id int64) {
	f.mu.Lock()
	f.draft.ClassID = id
	f.draft.SubjectID = 0
	f.draft.RoomID = 0
	f.afterSlotChangeLocked()
}

// SetDay changes the weekday.
func (f *TimetableForm) SetDay(id int64) {
	f.mu.Lock()
	f.draft.DayID = id
	f.draft.RoomID = 0
	f.afterSlotChangeLocked()
}

// SetStartTime changes the slot start.
func (f *TimetableForm) SetStartTime(v string) {
	f.mu.Lock()
	f.draft.StartTime = v
	f.draft.RoomID = 0
	f.afterSlotChangeLocked()
}

// SetEndTime changes the slot end.
func (f *TimetableForm) SetEndTime(v string) {
	f.mu.Lock()
	f.draft.EndTime = v
	f.draft.RoomID = 0
	f.afterSlotChangeLocked()
}

// setDate attaches a concrete calendar date to the slot query, switching the
// availability check to the dated room-list endpoint. Session forms own this.
func (f *TimetableForm) setDate(iso string) {
	f.mu.Lock()
	f.dateISO = iso
	f.draft.RoomID = 0
	f.afterSlotChangeLocked()
}

// SetSubject picks the matière.
func (f *TimetableForm) SetSubject(id int64) {
	f.mu.Lock()
	f.draft.SubjectID = id
	f.mu.Unlock()
}

// SetRoom picks a candidate room.
func (f *TimetableForm) SetRoom(id int64) {
	f.mu.Lock()
	f.draft.RoomID = id
	f.mu.Unlock()
}

// SetActivityType picks the activity type.
func (f *TimetableForm) SetActivityType(id int64) {
	f.mu.Lock()
	f.draft.ActivityTypeID = id
	f.mu.Unlock()
}

// afterSlotChangeLocked applies the create-mode reset-or-recheck rule. Called
// with the mutex held; releases it.
func (f *TimetableForm) afterSlotChangeLocked() {
	if f.mode != ModeCreate {
		f.mu.Unlock()
		return
	}

	query := f.queryLocked()
	if !query.Complete() {
		// Incomplete inputs: drop any stale result immediately.
		f.availability = models.AvailabilityState{CandidateRooms: []models.Room{}}
		f.mu.Unlock()
		f.deb.Cancel()
		return
	}
	if f.debounceWait <= 0 {
		// Manual mode: the previous result is stale but no effect fires,
		// the owner confirms explicitly via ConfirmAvailability.
		f.availability = models.AvailabilityState{CandidateRooms: []models.Room{}}
		f.mu.Unlock()
		return
	}
	f.availability.Loading = true
	f.mu.Unlock()

	f.deb.Schedule(f.debounceWait, func() {
		ctx, cancel := context.WithTimeout(context.Background(), f.checkTimeout)
		defer cancel()
		state := f.checker.Check(ctx, query)

		f.mu.Lock()
		defer f.mu.Unlock()
		// Lost-update guard: commit only when the inputs this check ran
		// against are still the live ones.
		if f.queryLocked() == query {
			f.availability = state
		}
	})
}

// ConfirmAvailability runs the check synchronously against the current inputs
// and commits the result. An explicit confirmation supersedes any pending
// debounced check, so the request path gets exactly one round trip whatever
// the configured debounce.
func (f *TimetableForm) ConfirmAvailability(ctx context.Context) models.AvailabilityState {
	f.deb.Cancel()

	f.mu.Lock()
	query := f.queryLocked()
	mode := f.mode
	f.mu.Unlock()

	var state models.AvailabilityState
	if mode == ModeEdit {
		state = f.checker.CheckForEdit(ctx, query, nil)
	} else {
		state = f.checker.Check(ctx, query)
	}

	f.mu.Lock()
	f.availability = state
	f.mu.Unlock()
	return state
}

// Draft returns a copy of the current draft.
func (f *TimetableForm) Draft() models.ActivityDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Availability returns the last committed availability state.
func (f *TimetableForm) Availability() models.AvailabilityState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.availability
}

// IsFormValid gates submission: every required field present, the time range
// valid, and availability positively confirmed. Unknown, loading, or negative
// availability all block.
func (f *TimetableForm) IsFormValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.draft.RequiredFieldsSet() {
		return false
	}
	if err := ValidateTimeRange(f.draft.StartTime, f.draft.EndTime); err != nil {
		return false
	}
	return f.availability.Settled()
}

// BeginSubmit acquires the single in-flight submission slot.
func (f *TimetableForm) BeginSubmit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return appErrors.ErrSubmitInFlight
	}
	f.submitting = true
	return nil
}

// EndSubmit releases the submission slot.
func (f *TimetableForm) EndSubmit() {
	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()
}

// Close drops any pending debounced check. Call on teardown.
func (f *TimetableForm) Close() {
	f.deb.Cancel()
}

func (f *TimetableForm) queryLocked() models.ScheduleSlotQuery {
	return models.ScheduleSlotQuery{
		ClassID:        f.draft.ClassID,
		DayID:          f.draft.DayID,
		DateISO:        f.dateISO,
		StartTime:      f.draft.StartTime,
		EndTime:        f.draft.EndTime,
		AcademicYearID: f.academicYearID,
	}
}

// HydrateActivityDraft maps a backend activity onto a draft, taking each
// foreign key from the first populated source: flat id, nested object, then
// the raw_data blob.
func HydrateActivityDraft(raw models.RawActivity) models.ActivityDraft {
	var rd models.RawActivityData
	if raw.RawData != nil {
		rd = *raw.RawData
	}
	return models.ActivityDraft{
		ClassID:        pickID(raw.ClasseID, classeID(raw.Classe), classeID(rd.Classe)),
		DayID:          pickID(raw.JourID, dayID(raw.Jour), dayID(rd.Jour)),
		StartTime:      raw.HeureDeb,
		EndTime:        raw.HeureFin,
		SubjectID:      pickID(raw.MatiereID, subjectID(raw.Matiere), subjectID(rd.Matiere)),
		RoomID:         pickID(raw.SalleID, roomID(raw.Salle), roomID(rd.Salle)),
		ActivityTypeID: pickID(raw.TypeActiviteID, typeID(raw.TypeActivite), typeID(rd.TypeActivite)),
	}
}

func currentRoom(raw models.RawActivity) *models.Room {
	if raw.Salle != nil {
		return raw.Salle
	}
	if raw.RawData != nil && raw.RawData.Salle != nil {
		return raw.RawData.Salle
	}
	if raw.SalleID != nil && *raw.SalleID != 0 {
		return &models.Room{ID: *raw.SalleID}
	}
	return nil
}

func pickID(candidates ...*int64) int64 {
	for _, c := range candidates {
		if c != nil && *c != 0 {
			return *c
		}
	}
	return 0
}

func classeID(c *models.Classe) *int64 {
	if c == nil {
		return nil
	}
	return &c.ID
}

func dayID(d *models.SchoolDay) *int64 {
	if d == nil {
		return nil
	}
	return &d.ID
}

func subjectID(s *models.Subject) *int64 {
	if s == nil {
		return nil
	}
	return &s.ID
}

func roomID(r *models.Room) *int64 {
	if r == nil {
		return nil
	}
	return &r.ID
}

func typeID(t *models.ActivityType) *int64 {
	if t == nil {
		return nil
	}
	return &t.ID
}
