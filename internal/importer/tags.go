package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	assetDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
)

var tagPrefixes = map[string]string{
	assetDomain.TypeLaptop:    "LAP",
	assetDomain.TypeDesktop:   "DSK",
	assetDomain.TypePhone:     "PHN",
	assetDomain.TypeTablet:    "TAB",
	assetDomain.TypeMonitor:   "MON",
	assetDomain.TypeAccessory: "ACC",
}

func tagPrefix(assetType string) string {
	if p, ok := tagPrefixes[assetType]; ok {
		return p
	}
	return "AST"
}

// GenerateAssetTag builds a tag from the type prefix, a date component and
// the row index, plus a random suffix so two rows generated in the same
// instant stay distinct within the batch.
func GenerateAssetTag(assetType string, rowIndex int) string {
	return fmt.Sprintf("%s-%s-%03d%s",
		tagPrefix(assetType),
		time.Now().Format("060102"),
		rowIndex,
		randomSuffix(),
	)
}

// GeneratePhoneTag embeds the assignee's name so a handset tag reads as the
// person carrying it. The random suffix keeps one person with several
// devices collision-free.
func GeneratePhoneTag(assignee string, rowIndex int) string {
	name := sanitizeTagComponent(assignee)
	if name == "" {
		return GenerateAssetTag(assetDomain.TypePhone, rowIndex)
	}
	return fmt.Sprintf("PHN-%s-%s", name, randomSuffix())
}

// supersededTag renames a conflicting tag-holder off its tag while keeping
// the old tag recognizable.
func supersededTag(oldTag string) string {
	return fmt.Sprintf("%s-superseded-%s", oldTag, randomSuffix())
}

func randomSuffix() string {
	return strings.ToUpper(uuid.NewString()[:4])
}

func sanitizeTagComponent(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '.', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
