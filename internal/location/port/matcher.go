package port

import (
	"context"

	"github.com/google/uuid"
)

// Matcher fuzzy-matches free-text office labels to canonical location ids.
// Unmatched labels map to nil.
type Matcher interface {
	MatchLocations(ctx context.Context, labels []string) (map[string]*uuid.UUID, error)
}

// Repo reads the canonical location records used for matching.
type Repo interface {
	ListAll(ctx context.Context) ([]Location, error)
}

// Location is the minimal record the matcher needs.
type Location struct {
	ID   uuid.UUID
	Name string
}
