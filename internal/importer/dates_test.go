package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{
			name:     "ISO date passes through",
			input:    "2024-03-15",
			expected: "2024-03-15",
			ok:       true,
		},
		{
			name:     "RFC3339 with colon in offset",
			input:    "2024-03-15T10:30:00+03:30",
			expected: "2024-03-15",
			ok:       true,
		},
		{
			name:     "RFC3339 without colon in offset",
			input:    "2024-03-15T10:30:00+0330",
			expected: "2024-03-15",
			ok:       true,
		},
		{
			name:     "naive datetime",
			input:    "2024-03-15T10:30:00",
			expected: "2024-03-15",
			ok:       true,
		},
		{
			name:     "space separated datetime",
			input:    "2024-03-15 10:30:00",
			expected: "2024-03-15",
			ok:       true,
		},
		{
			name:     "US slash format",
			input:    "03/15/2024",
			expected: "2024-03-15",
			ok:       true,
		},
		{
			name:     "dotted day-first format",
			input:    "15.03.2024",
			expected: "2024-03-15",
			ok:       true,
		},
		{
			name:     "spreadsheet serial for unix epoch",
			input:    "25569",
			expected: "1970-01-01",
			ok:       true,
		},
		{
			name:     "spreadsheet serial one",
			input:    "1",
			expected: "1899-12-31",
			ok:       true,
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  2024-03-15  ",
			expected: "2024-03-15",
			ok:       true,
		},
		{
			name:  "empty input",
			input: "",
			ok:    false,
		},
		{
			name:  "free text",
			input: "sometime last year",
			ok:    false,
		},
		{
			name:  "negative serial",
			input: "-5",
			ok:    false,
		},
		{
			name:  "serial out of range",
			input: "9999999",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := importer.NormalizeDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}
