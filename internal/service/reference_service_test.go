package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
	"github.com/soumsmith/vie-ecole-gateway/pkg/cache"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

// fakeRefGateway serves scripted reference collections and counts fetches per
// collection so cache behavior can be asserted.
type fakeRefGateway struct {
	mu    sync.Mutex
	refs  models.ReferenceSet
	err   error
	calls map[string]int
}

func newFakeRefGateway(refs models.ReferenceSet) *fakeRefGateway {
	return &fakeRefGateway{refs: refs, calls: map[string]int{}}
}

func (f *fakeRefGateway) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeRefGateway) fetchCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRefGateway) Classes(ctx context.Context) ([]models.Classe, error) {
	return f.refs.Classes, f.record("classes")
}

func (f *fakeRefGateway) Days(ctx context.Context) ([]models.SchoolDay, error) {
	return f.refs.Days, f.record("jours")
}

func (f *fakeRefGateway) SubjectsByClass(ctx context.Context, classID int64) ([]models.Subject, error) {
	return f.refs.Subjects, f.record("matieres")
}

func (f *fakeRefGateway) Rooms(ctx context.Context) ([]models.Room, error) {
	return f.refs.Rooms, f.record("salles")
}

func (f *fakeRefGateway) ActivityTypes(ctx context.Context) ([]models.ActivityType, error) {
	return f.refs.ActivityTypes, f.record("typeActivites")
}

func (f *fakeRefGateway) PersonnelList(ctx context.Context) ([]models.Personnel, error) {
	return f.refs.Personnel, f.record("personnels")
}

func (f *fakeRefGateway) SchoolYears(ctx context.Context) ([]models.SchoolYear, error) {
	return f.refs.Years, f.record("annees")
}

func TestLoadAssemblesReferenceSet(t *testing.T) {
	gw := newFakeRefGateway(testRefs())
	svc := NewReferenceService(gw, nil, time.Minute, nil, zap.NewNop())

	refs, err := svc.Load(context.Background(), 5)
	require.NoError(t, err)

	assert.Len(t, refs.Classes, 1)
	assert.Len(t, refs.Days, 2)
	assert.Len(t, refs.Subjects, 1)
	assert.Len(t, refs.Rooms, 1)
	assert.Len(t, refs.ActivityTypes, 1)
	assert.Len(t, refs.Personnel, 2)
}

func TestLoadUsesCacheOnSecondCall(t *testing.T) {
	gw := newFakeRefGateway(testRefs())
	svc := NewReferenceService(gw, cache.NewMemory(), time.Minute, nil, zap.NewNop())

	_, err := svc.Load(context.Background(), 5)
	require.NoError(t, err)
	_, err = svc.Load(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 1, gw.fetchCount("classes"))
	assert.Equal(t, 1, gw.fetchCount("salles"))
	assert.Equal(t, 1, gw.fetchCount("matieres"))
}

func TestLoadSubjectsAreClassScoped(t *testing.T) {
	gw := newFakeRefGateway(testRefs())
	svc := NewReferenceService(gw, cache.NewMemory(), time.Minute, nil, zap.NewNop())

	_, err := svc.Load(context.Background(), 5)
	require.NoError(t, err)
	_, err = svc.Load(context.Background(), 6)
	require.NoError(t, err)

	// A different class misses the subjects cache but nothing else.
	assert.Equal(t, 2, gw.fetchCount("matieres"))
	assert.Equal(t, 1, gw.fetchCount("classes"))
}

func TestLoadWithoutStoreAlwaysFetches(t *testing.T) {
	gw := newFakeRefGateway(testRefs())
	svc := NewReferenceService(gw, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.Load(context.Background(), 5)
	require.NoError(t, err)
	_, err = svc.Load(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 2, gw.fetchCount("classes"))
}

func TestLoadPropagatesFetchFailure(t *testing.T) {
	gw := newFakeRefGateway(testRefs())
	gw.err = assert.AnError
	svc := NewReferenceService(gw, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.Load(context.Background(), 5)
	assert.Error(t, err)
}

func TestCollectionKnownNames(t *testing.T) {
	gw := newFakeRefGateway(testRefs())
	svc := NewReferenceService(gw, nil, time.Minute, nil, zap.NewNop())

	for _, name := range []string{"classes", "jours", "salles", "typeActivites", "personnels", "annees"} {
		got, err := svc.Collection(context.Background(), name)
		require.NoError(t, err, name)
		assert.NotNil(t, got, name)
	}
}

func TestCollectionServesEmptyListNotNull(t *testing.T) {
	// The backend answers null for collections with no rows; the endpoint
	// must still serve [].
	gw := newFakeRefGateway(models.ReferenceSet{})
	svc := NewReferenceService(gw, nil, time.Minute, nil, zap.NewNop())

	for _, name := range []string{"classes", "jours", "salles", "typeActivites", "personnels", "annees"} {
		got, err := svc.Collection(context.Background(), name)
		require.NoError(t, err, name)
		assert.NotNil(t, got, name)
	}
}

func TestCollectionUnknownName(t *testing.T) {
	gw := newFakeRefGateway(testRefs())
	svc := NewReferenceService(gw, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.Collection(context.Background(), "eleves")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
