package directory

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"gitlab.apk-group.net/itops/backend/asset-inventory/config"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/directory/domain"
	directoryPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/directory/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

var identityAttributes = []string{
	"objectGUID", "sAMAccountName", "displayName", "physicalDeliveryOfficeName",
}

// ldapResolver resolves identities against an LDAP directory. Each call opens
// one connection for the whole batch.
type ldapResolver struct {
	cfg config.DirectoryConfig
}

func NewLDAPResolver(cfg config.DirectoryConfig) directoryPort.Resolver {
	return &ldapResolver{cfg: cfg}
}

func (r *ldapResolver) ResolveBySamAccount(ctx context.Context, names []string) (map[string]*domain.Identity, error) {
	return r.resolve(ctx, "sAMAccountName", names)
}

func (r *ldapResolver) ResolveByDisplayName(ctx context.Context, names []string) (map[string]*domain.Identity, error) {
	return r.resolve(ctx, "displayName", names)
}

func (r *ldapResolver) resolve(ctx context.Context, attribute string, names []string) (map[string]*domain.Identity, error) {
	out := make(map[string]*domain.Identity, len(names))
	for _, n := range names {
		out[n] = nil
	}
	if len(names) == 0 {
		return out, nil
	}

	conn, err := r.connect()
	if err != nil {
		logger.ErrorContext(ctx, "[Directory] LDAP connection failed: %v", err)
		return out, fmt.Errorf("ldap connect: %w", err)
	}
	defer conn.Close()

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		entry, err := r.searchOne(conn, attribute, name)
		if err != nil {
			// Best effort: a failed lookup leaves the entry nil.
			logger.WarnContext(ctx, "[Directory] Lookup failed for %s=%s: %v", attribute, name, err)
			continue
		}
		out[name] = entry
	}

	logger.DebugContext(ctx, "[Directory] Resolved %d/%d names by %s", resolvedCount(out), len(names), attribute)
	return out, nil
}

func (r *ldapResolver) connect() (*ldap.Conn, error) {
	addr := fmt.Sprintf("%s:%d", r.cfg.Host, r.cfg.Port)

	var conn *ldap.Conn
	var err error
	if r.cfg.UseTLS {
		conn, err = ldap.DialTLS("tcp", addr, &tls.Config{ServerName: r.cfg.Host, MinVersion: tls.VersionTLS12})
	} else {
		conn, err = ldap.Dial("tcp", addr)
	}
	if err != nil {
		return nil, err
	}

	if err := conn.Bind(r.cfg.BindUser, r.cfg.BindPassword); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func (r *ldapResolver) searchOne(conn *ldap.Conn, attribute, name string) (*domain.Identity, error) {
	filter := fmt.Sprintf("(&(objectClass=user)(%s=%s))", attribute, ldap.EscapeFilter(name))
	req := ldap.NewSearchRequest(
		r.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 2, 0, false,
		filter,
		identityAttributes,
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		return nil, err
	}
	if len(res.Entries) == 0 {
		return nil, nil
	}

	entry := res.Entries[0]
	return &domain.Identity{
		ID:             guidString(entry.GetRawAttributeValue("objectGUID")),
		SamAccountName: entry.GetAttributeValue("sAMAccountName"),
		DisplayName:    entry.GetAttributeValue("displayName"),
		OfficeLocation: entry.GetAttributeValue("physicalDeliveryOfficeName"),
	}, nil
}

// guidString renders the binary objectGUID in the canonical dashed form.
func guidString(raw []byte) string {
	if len(raw) != 16 {
		return ""
	}
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		raw[3], raw[2], raw[1], raw[0],
		raw[5], raw[4],
		raw[7], raw[6],
		raw[8], raw[9],
		raw[10], raw[11], raw[12], raw[13], raw[14], raw[15])
}

func resolvedCount(m map[string]*domain.Identity) int {
	n := 0
	for _, v := range m {
		if v != nil {
			n++
		}
	}
	return n
}
