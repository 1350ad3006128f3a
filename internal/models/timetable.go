package models

import "time"

// ScheduleSlotQuery identifies a candidate timetable booking: a class, a
// weekday, a time range, and the academic year. Date is optional and only set
// on the session path, which checks a concrete calendar day.
type ScheduleSlotQuery struct {
	ClassID        int64  `json:"classId"`
	DayID          int64  `json:"dayId"`
	DateISO        string `json:"date,omitempty"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	AcademicYearID int64  `json:"academicYearId"`
}

// Complete reports whether every field the availability check requires is set.
func (q ScheduleSlotQuery) Complete() bool {
	return q.ClassID != 0 && q.DayID != 0 && q.StartTime != "" && q.EndTime != ""
}

// AvailabilityState is the checker's published result. Available stays nil
// until a check settles; Loading covers the in-flight window.
type AvailabilityState struct {
	Available      *bool  `json:"available"`
	CandidateRooms []Room `json:"candidateRooms"`
	Err            string `json:"error,omitempty"`
	Loading        bool   `json:"loading"`
}

// Settled reports whether the slot has been positively confirmed free.
func (s AvailabilityState) Settled() bool {
	return s.Available != nil && *s.Available && !s.Loading
}

// ActivityDraft is the form state for an emploi du temps entry. Zero ids mean
// the field has not been chosen (or was cleared by an upstream change).
type ActivityDraft struct {
	ClassID        int64  `json:"classId"`
	DayID          int64  `json:"dayId"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	SubjectID      int64  `json:"subjectId"`
	RoomID         int64  `json:"roomId"`
	ActivityTypeID int64  `json:"activityTypeId"`
}

// RequiredFieldsSet reports whether every mandatory activity field is chosen.
func (d ActivityDraft) RequiredFieldsSet() bool {
	return d.ClassID != 0 && d.DayID != 0 && d.StartTime != "" && d.EndTime != "" &&
		d.SubjectID != 0 && d.RoomID != 0 && d.ActivityTypeID != 0
}

// SessionDraft is the form state for a séance saisie. DayID is always derived
// from SessionDate and is never independently editable: the session service
// recomputes it on every date write, discarding conflicting values.
type SessionDraft struct {
	ActivityDraft

	SessionDate         time.Time `json:"sessionDate"`
	TeacherID           int64     `json:"teacherId"`
	SupervisorID        int64     `json:"supervisorId"`
	EvaluationGenerated bool      `json:"evaluationGenerated"`
	Period              string    `json:"period"`
	ScoreMax            int       `json:"scoreMax"`
	Duration            string    `json:"duration"` // HH:MM picker value
}
