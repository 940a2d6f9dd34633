package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"trims and drops empties", []string{"  a.b ", "", "   "}, []string{"a.b"}},
		{"keeps first occurrence order", []string{"c", "a", "c", " a"}, []string{"c", "a"}},
		{"case sensitive", []string{"Year", "year"}, []string{"Year", "year"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.in))
		})
	}
}

func TestSplitDedupeAndTrim(t *testing.T) {
	got := SplitDedupeAndTrim([]string{"basicInformation.year, isPartner", "isPartner", ",,"}, ",")
	assert.Equal(t, []string{"basicInformation.year", "isPartner"}, got)
}
