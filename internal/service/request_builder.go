package service

import (
	"fmt"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

// BuildActivityPayload assembles the saveActivite wire payload from a draft
// and the loaded reference collections. Every foreign key must resolve; a miss
// means form validity failed to gate submission and surfaces as an internal
// error. Pure: inputs are never mutated, the payload is a fresh value. All
// embedded references carry a null libelle since the backend treats labels as
// display-only.
func BuildActivityPayload(draft models.ActivityDraft, academicYearID int64, refs models.ReferenceSet) (models.ActivityPayload, error) {
	classe, err := resolveClasse(refs, draft.ClassID)
	if err != nil {
		return models.ActivityPayload{}, err
	}
	jour, err := resolveDay(refs, draft.DayID)
	if err != nil {
		return models.ActivityPayload{}, err
	}
	matiere, err := resolveSubject(refs, draft.SubjectID)
	if err != nil {
		return models.ActivityPayload{}, err
	}
	salle, err := resolveRoom(refs, draft.RoomID)
	if err != nil {
		return models.ActivityPayload{}, err
	}
	typeActivite, err := resolveActivityType(refs, draft.ActivityTypeID)
	if err != nil {
		return models.ActivityPayload{}, err
	}

	return models.ActivityPayload{
		Classe:       models.Ref(classe.ID),
		Jour:         models.Ref(jour.ID),
		Matiere:      models.Ref(matiere.ID),
		Salle:        models.Ref(salle.ID),
		TypeActivite: models.Ref(typeActivite.ID),
		Annee:        models.Ref(academicYearID),
		HeureDeb:     draft.StartTime,
		HeureFin:     draft.EndTime,
	}, nil
}

// BuildSessionPayload assembles the saveAndDisplay wire payload. The HH:MM
// duration picker value becomes total minutes, and the evaluation key is
// always present: populated when generation is requested, a zeroed sentinel
// otherwise, because the backend schema expects the key either way.
func BuildSessionPayload(draft models.SessionDraft, academicYearID int64, refs models.ReferenceSet) (models.SessionPayload, error) {
	activity, err := BuildActivityPayload(draft.ActivityDraft, academicYearID, refs)
	if err != nil {
		return models.SessionPayload{}, err
	}

	teacher, err := resolvePersonnel(refs, draft.TeacherID, "teacher")
	if err != nil {
		return models.SessionPayload{}, err
	}

	payload := models.SessionPayload{
		ActivityPayload: activity,
		Date:            draft.SessionDate.Format(dateLayout),
		Professeur:      models.Ref(teacher.ID),
		Duree:           DurationMinutes(draft.Duration),
		Evaluation:      models.EvaluationPayload{},
	}

	if draft.SupervisorID != 0 {
		supervisor, err := resolvePersonnel(refs, draft.SupervisorID, "supervisor")
		if err != nil {
			return models.SessionPayload{}, err
		}
		payload.Surveillant = models.Ref(supervisor.ID)
	}

	if draft.EvaluationGenerated {
		payload.Evaluation = models.EvaluationPayload{
			Generated: true,
			Periode:   draft.Period,
			NoteSur:   draft.ScoreMax,
			Duree:     DurationMinutes(draft.Duration),
			Date:      payload.Date,
		}
	}

	return payload, nil
}

func resolutionMiss(kind string, id int64) error {
	return appErrors.Wrap(
		fmt.Errorf("%s %d not in loaded collection", kind, id),
		appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
		"submission built from an unresolved "+kind,
	)
}

func resolveClasse(refs models.ReferenceSet, id int64) (models.Classe, error) {
	for _, c := range refs.Classes {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Classe{}, resolutionMiss("class", id)
}

func resolveDay(refs models.ReferenceSet, id int64) (models.SchoolDay, error) {
	for _, d := range refs.Days {
		if d.ID == id {
			return d, nil
		}
	}
	return models.SchoolDay{}, resolutionMiss("day", id)
}

func resolveSubject(refs models.ReferenceSet, id int64) (models.Subject, error) {
	for _, s := range refs.Subjects {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Subject{}, resolutionMiss("subject", id)
}

func resolveRoom(refs models.ReferenceSet, id int64) (models.Room, error) {
	for _, r := range refs.Rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Room{}, resolutionMiss("room", id)
}

func resolveActivityType(refs models.ReferenceSet, id int64) (models.ActivityType, error) {
	for _, t := range refs.ActivityTypes {
		if t.ID == id {
			return t, nil
		}
	}
	return models.ActivityType{}, resolutionMiss("activity type", id)
}

func resolvePersonnel(refs models.ReferenceSet, id int64, kind string) (models.Personnel, error) {
	for _, p := range refs.Personnel {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Personnel{}, resolutionMiss(kind, id)
}
