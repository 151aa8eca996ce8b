package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sweetshop-api/pkg/slug"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Alice", "alice"},
		{"  Alice   Smith ", "alice-smith"},
		{"José Ñúñez", "jose-nunez"},
		{"dark--chocolate!!", "dark-chocolate"},
		{"snake_case ok", "snake_case-ok"},
		{"!!!", ""},
		{"日本", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.Make(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", slug.Truncate("abc", 10))
	assert.Equal(t, "ab", slug.Truncate("ab-cd", 3))
	assert.Len(t, slug.Truncate(strings.Repeat("a", 200), 150), 150)
}
