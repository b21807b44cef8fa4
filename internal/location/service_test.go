package location_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/location"
	locationPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/location/port"
)

type stubLocationRepo struct {
	locations []locationPort.Location
	err       error
}

func (s *stubLocationRepo) ListAll(_ context.Context) ([]locationPort.Location, error) {
	return s.locations, s.err
}

func knownLocations() (*stubLocationRepo, map[string]uuid.UUID) {
	ids := map[string]uuid.UUID{
		"Amsterdam HQ":  uuid.New(),
		"Berlin Office": uuid.New(),
		"Warehouse":     uuid.New(),
	}
	repo := &stubLocationRepo{}
	for name, id := range ids {
		repo.locations = append(repo.locations, locationPort.Location{ID: id, Name: name})
	}
	return repo, ids
}

func TestMatcher_ExactMatchWins(t *testing.T) {
	repo, ids := knownLocations()
	matcher := location.NewMatcher(repo)

	out, err := matcher.MatchLocations(context.Background(), []string{"amsterdam hq"})
	require.NoError(t, err)
	require.NotNil(t, out["amsterdam hq"])
	assert.Equal(t, ids["Amsterdam HQ"], *out["amsterdam hq"])
}

func TestMatcher_FuzzyMatchWithinBound(t *testing.T) {
	repo, ids := knownLocations()
	matcher := location.NewMatcher(repo)

	out, err := matcher.MatchLocations(context.Background(), []string{"Amsterdm"})
	require.NoError(t, err)
	require.NotNil(t, out["Amsterdm"], "close misspelling should still match")
	assert.Equal(t, ids["Amsterdam HQ"], *out["Amsterdm"])
}

func TestMatcher_UnmatchableLabel(t *testing.T) {
	repo, _ := knownLocations()
	matcher := location.NewMatcher(repo)

	out, err := matcher.MatchLocations(context.Background(), []string{"Zurich"})
	require.NoError(t, err)
	assert.Nil(t, out["Zurich"])
}

func TestMatcher_TooDistantCandidateRejected(t *testing.T) {
	repo := &stubLocationRepo{locations: []locationPort.Location{
		{ID: uuid.New(), Name: "Amsterdam Headquarters Building Seven"},
	}}
	matcher := location.NewMatcher(repo)

	out, err := matcher.MatchLocations(context.Background(), []string{"AMS"})
	require.NoError(t, err)
	assert.Nil(t, out["AMS"], "a loose abbreviation must not bind to a long name")
}

func TestMatcher_BlankAndMixedLabels(t *testing.T) {
	repo, ids := knownLocations()
	matcher := location.NewMatcher(repo)

	out, err := matcher.MatchLocations(context.Background(), []string{"", "  ", "Warehouse"})
	require.NoError(t, err)
	assert.Nil(t, out[""])
	assert.Nil(t, out["  "])
	require.NotNil(t, out["Warehouse"])
	assert.Equal(t, ids["Warehouse"], *out["Warehouse"])
}

func TestMatcher_NoKnownLocations(t *testing.T) {
	matcher := location.NewMatcher(&stubLocationRepo{})

	out, err := matcher.MatchLocations(context.Background(), []string{"Amsterdam HQ"})
	require.NoError(t, err)
	assert.Nil(t, out["Amsterdam HQ"])
}

func TestMatcher_RepoError(t *testing.T) {
	matcher := location.NewMatcher(&stubLocationRepo{err: errors.New("database gone")})

	out, err := matcher.MatchLocations(context.Background(), []string{"Amsterdam HQ"})
	require.Error(t, err)
	assert.Nil(t, out["Amsterdam HQ"])
}
