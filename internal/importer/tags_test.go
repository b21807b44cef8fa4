package importer_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	assetDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer"
)

var assetTagRe = regexp.MustCompile(`^[A-Z]{3}-\d{6}-\d{3,}[0-9A-F]{4}$`)

func TestGenerateAssetTag(t *testing.T) {
	tests := []struct {
		name      string
		assetType string
		prefix    string
	}{
		{"laptop prefix", assetDomain.TypeLaptop, "LAP-"},
		{"desktop prefix", assetDomain.TypeDesktop, "DSK-"},
		{"phone prefix", assetDomain.TypePhone, "PHN-"},
		{"tablet prefix", assetDomain.TypeTablet, "TAB-"},
		{"monitor prefix", assetDomain.TypeMonitor, "MON-"},
		{"accessory prefix", assetDomain.TypeAccessory, "ACC-"},
		{"unknown type falls back", "PRINTER", "AST-"},
		{"empty type falls back", "", "AST-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := importer.GenerateAssetTag(tt.assetType, 7)
			assert.True(t, len(tag) > len(tt.prefix))
			assert.Equal(t, tt.prefix, tag[:4])
			assert.Regexp(t, assetTagRe, tag)
		})
	}
}

func TestGenerateAssetTag_DistinctWithinInstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tag := importer.GenerateAssetTag(assetDomain.TypeLaptop, i)
		assert.False(t, seen[tag], "tag %s generated twice", tag)
		seen[tag] = true
	}
}

func TestGeneratePhoneTag(t *testing.T) {
	tests := []struct {
		name     string
		assignee string
		contains string
	}{
		{"display name embedded", "Jane Doe", "PHN-JANE-DOE-"},
		{"account name embedded", "jdoe", "PHN-JDOE-"},
		{"apostrophe dropped", "O'Brien", "PHN-OBRIEN-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := importer.GeneratePhoneTag(tt.assignee, 3)
			assert.Contains(t, tag, tt.contains)
		})
	}
}

func TestGeneratePhoneTag_NoAssigneeFallsBack(t *testing.T) {
	tag := importer.GeneratePhoneTag("", 3)
	assert.Equal(t, "PHN-", tag[:4])
	assert.Regexp(t, assetTagRe, tag)

	// Names that sanitize down to nothing also fall back.
	tag = importer.GeneratePhoneTag("!!!", 3)
	assert.Regexp(t, assetTagRe, tag)
}
