package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowed(t *testing.T) {
	tests := []struct {
		unit string
		want bool
	}{
		{"single pay", true},
		{"Single Payment", true},
		{"  per   month ", true},
		{"percent", true},
		{"per fortnight", false},
		{"", false},
		{"euros", false},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAllowed(tt.unit))
		})
	}
}

func TestAllowedSorted(t *testing.T) {
	all := Allowed()
	assert.Len(t, all, 13)
	for i := 1; i < len(all); i++ {
		assert.Less(t, string(all[i-1]), string(all[i]))
	}
}
