package port

import (
	"context"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/directory/domain"
)

// Resolver maps human usernames or display names to stable directory
// identities. Both calls are best-effort: unresolved names map to nil and
// lookups never fail the whole batch for a single bad name.
type Resolver interface {
	ResolveBySamAccount(ctx context.Context, names []string) (map[string]*domain.Identity, error)
	ResolveByDisplayName(ctx context.Context, names []string) (map[string]*domain.Identity, error)
}
