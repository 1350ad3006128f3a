package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
	"github.com/soumsmith/vie-ecole-gateway/pkg/cache"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

// referenceGateway is the slice of the backend client that feeds reference
// collections.
type referenceGateway interface {
	Classes(ctx context.Context) ([]models.Classe, error)
	Days(ctx context.Context) ([]models.SchoolDay, error)
	SubjectsByClass(ctx context.Context, classID int64) ([]models.Subject, error)
	Rooms(ctx context.Context) ([]models.Room, error)
	ActivityTypes(ctx context.Context) ([]models.ActivityType, error)
	PersonnelList(ctx context.Context) ([]models.Personnel, error)
	SchoolYears(ctx context.Context) ([]models.SchoolYear, error)
}

// ReferenceService fetches and caches the collections foreign keys resolve
// against. Entries go stale by the configured max age, judged when read.
type ReferenceService struct {
	gateway referenceGateway
	store   cache.Store
	maxAge  time.Duration
	metrics *MetricsService
	logger  *zap.Logger
}

// NewReferenceService wires the loader.
func NewReferenceService(gateway referenceGateway, store cache.Store, maxAge time.Duration, metrics *MetricsService, logger *zap.Logger) *ReferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{gateway: gateway, store: store, maxAge: maxAge, metrics: metrics, logger: logger}
}

// Load assembles the ReferenceSet request building needs. Subjects are
// class-scoped, everything else is school-wide.
func (s *ReferenceService) Load(ctx context.Context, classID int64) (models.ReferenceSet, error) {
	var refs models.ReferenceSet
	var err error

	if refs.Classes, err = cached(ctx, s, "classes", s.gateway.Classes); err != nil {
		return refs, err
	}
	if refs.Days, err = cached(ctx, s, "jours", s.gateway.Days); err != nil {
		return refs, err
	}
	if refs.Rooms, err = cached(ctx, s, "salles", s.gateway.Rooms); err != nil {
		return refs, err
	}
	if refs.ActivityTypes, err = cached(ctx, s, "typeActivites", s.gateway.ActivityTypes); err != nil {
		return refs, err
	}
	if refs.Personnel, err = cached(ctx, s, "personnels", s.gateway.PersonnelList); err != nil {
		return refs, err
	}
	if refs.Years, err = cached(ctx, s, "annees", s.gateway.SchoolYears); err != nil {
		return refs, err
	}

	key := fmt.Sprintf("matieres:%d", classID)
	refs.Subjects, err = cached(ctx, s, key, func(ctx context.Context) ([]models.Subject, error) {
		return s.gateway.SubjectsByClass(ctx, classID)
	})
	return refs, err
}

// Subjects serves the class-scoped matières collection.
func (s *ReferenceService) Subjects(ctx context.Context, classID int64) ([]models.Subject, error) {
	key := fmt.Sprintf("matieres:%d", classID)
	return cached(ctx, s, key, func(ctx context.Context) ([]models.Subject, error) {
		return s.gateway.SubjectsByClass(ctx, classID)
	})
}

// Collection serves a single named collection for the reference endpoint.
func (s *ReferenceService) Collection(ctx context.Context, name string) (interface{}, error) {
	switch name {
	case "classes":
		return cached(ctx, s, "classes", s.gateway.Classes)
	case "jours":
		return cached(ctx, s, "jours", s.gateway.Days)
	case "salles":
		return cached(ctx, s, "salles", s.gateway.Rooms)
	case "typeActivites":
		return cached(ctx, s, "typeActivites", s.gateway.ActivityTypes)
	case "personnels":
		return cached(ctx, s, "personnels", s.gateway.PersonnelList)
	case "annees":
		return cached(ctx, s, "annees", s.gateway.SchoolYears)
	default:
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown reference collection "+name)
	}
}

// cached looks the collection up in the store before going to the backend.
// Cache failures other than a miss are logged and treated as misses; a cache
// problem must never block a booking.
func cached[T any](ctx context.Context, s *ReferenceService, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if s.store != nil {
		var hit []T
		err := s.store.Get(ctx, "ref:"+key, s.maxAge, &hit)
		if err == nil {
			s.metrics.RecordCacheLookup(true)
			return hit, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("reference cache read failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	fresh, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		// The backend answers null for empty collections; serve [] instead.
		fresh = []T{}
	}
	if s.store != nil {
		if err := s.store.Set(ctx, "ref:"+key, fresh); err != nil {
			s.logger.Warn("reference cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return fresh, nil
}
