package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_DetectFromState(t *testing.T) {
	r := NewResolver(DefaultCode)

	tests := []struct {
		state string
		want  Code
	}{
		{"Karnataka", Kannada},
		{"Telangana", Telugu},
		{"Andhra Pradesh", Telugu},
		{"Tamil Nadu", Tamil},
		{"Kerala", Malayalam},
		{"Maharashtra", Marathi},
		{"Gujarat", Gujarati},
		{"West Bengal", Bengali},
		{"Punjab", Punjabi},
		{"Odisha", Odia},
		{"Uttar Pradesh", Hindi},
		{"Delhi", Hindi},
		{"Assam", Hindi},
		{"Goa", English},
		{"Puducherry", Tamil},
		{"Lakshadweep", Malayalam},
		{"", DefaultCode},
		{"Unknown State", DefaultCode},
	}

	for _, tt := range tests {
		name := tt.state
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.DetectFromState(tt.state))
		})
	}
}

func TestResolver_CustomFallback(t *testing.T) {
	r := NewResolver(Hindi)
	assert.Equal(t, Hindi, r.DetectFromState(""))
	assert.Equal(t, Hindi, r.DetectFromState("Atlantis"))
	// mapped states unaffected by the fallback
	assert.Equal(t, Kannada, r.DetectFromState("Karnataka"))
}

func TestNewResolver_UnsupportedFallback(t *testing.T) {
	r := NewResolver(Code("xx-XX"))
	assert.Equal(t, DefaultCode, r.Fallback())
}

func TestIsSupported(t *testing.T) {
	for _, c := range []Code{English, Telugu, Hindi, Tamil, Kannada, Malayalam, Marathi, Gujarati, Bengali, Punjabi, Odia} {
		assert.True(t, IsSupported(c), string(c))
	}
	assert.False(t, IsSupported(Code("fr-FR")))
}

func TestSupported(t *testing.T) {
	codes := Supported()
	assert.Len(t, codes, 11)

	seen := make(map[Code]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
}
