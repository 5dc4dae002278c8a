package platform

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "fake trade", 20, "fake trade"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdef", 5, "abcd…"},
		{"multibyte", "ポケモンゲット", 4, "ポケモ…"},
		{"zero", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
		})
	}
}

func TestAddField_CapsValue(t *testing.T) {
	s := &Summary{}
	s.AddField("Reason", strings.Repeat("x", MaxFieldValueLength), false).
		AddField("Reason", strings.Repeat("é", 1500), false)

	assert.Equal(t, strings.Repeat("x", MaxFieldValueLength), s.Fields[0].Value)
	assert.Equal(t, MaxFieldValueLength, utf8.RuneCountInString(s.Fields[1].Value))
	assert.True(t, strings.HasSuffix(s.Fields[1].Value, "…"))
}
