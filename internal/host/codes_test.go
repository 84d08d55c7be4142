package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestApproachTypeForLetter(t *testing.T) {
	want := map[byte]ApproachType{
		'B': ApproachBackcourse,
		'D': ApproachVOR,
		'I': ApproachILS,
		'L': ApproachLOC,
		'N': ApproachNDB,
		'P': ApproachGPS,
		'Q': ApproachNDBDME,
		'R': ApproachRNAV,
		'U': ApproachSDF,
		'V': ApproachVOR,
		'X': ApproachLDA,
	}
	for letter, typ := range want {
		got, err := ApproachTypeForLetter(letter)
		require.NoError(t, err, "letter %c", letter)
		assert.Equal(t, typ, got)
	}

	for _, letter := range []byte{'A', 'G', 'Z', '2', ' '} {
		_, err := ApproachTypeForLetter(letter)
		assert.ErrorIs(t, err, ErrUnknownApproachType, "letter %q", letter)
	}
}

func TestParseRunwayDesignator(t *testing.T) {
	d, err := ParseRunwayDesignator('L')
	require.NoError(t, err)
	assert.Equal(t, RunwayDesignatorL, d)
	assert.Equal(t, "L", d.String())

	_, err = ParseRunwayDesignator('X')
	assert.ErrorIs(t, err, ErrUnknownRunwayDesignator)
}

func TestCodes_YAML(t *testing.T) {
	var ap Approach
	require.NoError(t, yaml.Unmarshal([]byte(`
name: I25L
runway_number: 25
runway_designator: L
type: ils
`), &ap))
	assert.Equal(t, ApproachILS, ap.Type)
	assert.Equal(t, RunwayDesignatorL, ap.RunwayDesignator)

	var bad Approach
	assert.Error(t, yaml.Unmarshal([]byte(`type: TACAN`), &bad))
}

func TestRunwayNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"25L", 25, true},
		{"RW06L", 6, true},
		{"06", 6, true},
		{"6", 6, true},
		{"RW", 0, false},
		{"L", 0, false},
	}
	for _, tt := range tests {
		got, ok := RunwayNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
