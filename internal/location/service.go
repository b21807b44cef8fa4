package location

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	locationPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/location/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

// maxMatchDistance bounds how loose a fuzzy match may be before a label is
// treated as unmatched.
const maxMatchDistance = 10

type service struct {
	repo locationPort.Repo
}

func NewMatcher(repo locationPort.Repo) locationPort.Matcher {
	return &service{repo: repo}
}

// MatchLocations ranks every known location name against each label and picks
// the closest match within the distance bound. Exact (case-insensitive)
// matches win immediately.
func (s *service) MatchLocations(ctx context.Context, labels []string) (map[string]*uuid.UUID, error) {
	out := make(map[string]*uuid.UUID, len(labels))
	for _, l := range labels {
		out[l] = nil
	}

	locations, err := s.repo.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Location matcher: failed to list locations: %v", err)
		return out, err
	}
	if len(locations) == 0 {
		return out, nil
	}

	names := make([]string, len(locations))
	byName := make(map[string]uuid.UUID, len(locations))
	for i, loc := range locations {
		names[i] = loc.Name
		byName[loc.Name] = loc.ID
	}

	for _, label := range labels {
		trimmed := strings.TrimSpace(label)
		if trimmed == "" {
			continue
		}

		if id, ok := exactMatch(trimmed, locations); ok {
			v := id
			out[label] = &v
			continue
		}

		ranks := fuzzy.RankFindNormalizedFold(trimmed, names)
		if len(ranks) == 0 {
			logger.DebugContext(ctx, "Location matcher: no candidate for label %q", label)
			continue
		}

		best := ranks[0]
		for _, r := range ranks[1:] {
			if r.Distance < best.Distance {
				best = r
			}
		}
		if best.Distance > maxMatchDistance {
			logger.DebugContext(ctx, "Location matcher: best candidate for %q too distant (%d)", label, best.Distance)
			continue
		}

		id := byName[best.Target]
		out[label] = &id
	}

	return out, nil
}

func exactMatch(label string, locations []locationPort.Location) (uuid.UUID, bool) {
	for _, loc := range locations {
		if strings.EqualFold(label, loc.Name) {
			return loc.ID, true
		}
	}
	return uuid.Nil, false
}
