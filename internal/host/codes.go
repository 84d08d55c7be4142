package host

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRunwayDesignator = errors.New("unknown runway designator")
	ErrUnknownApproachType     = errors.New("unknown approach type")
)

// RunwayDesignator is the host's encoding of the letter that follows a
// runway number. RunwayDesignatorNone (zero) means the runway has none.
type RunwayDesignator int

const (
	RunwayDesignatorNone RunwayDesignator = iota
	RunwayDesignatorL
	RunwayDesignatorR
	RunwayDesignatorC
	RunwayDesignatorW
	RunwayDesignatorA
	RunwayDesignatorB
)

var runwayDesignators = map[byte]RunwayDesignator{
	'L': RunwayDesignatorL,
	'R': RunwayDesignatorR,
	'C': RunwayDesignatorC,
	'W': RunwayDesignatorW,
	'A': RunwayDesignatorA,
	'B': RunwayDesignatorB,
}

// ParseRunwayDesignator maps a designator letter to its host code.
// Letters outside the table are an error, never a silent default.
func ParseRunwayDesignator(letter byte) (RunwayDesignator, error) {
	if d, ok := runwayDesignators[letter]; ok {
		return d, nil
	}
	return RunwayDesignatorNone, fmt.Errorf("%w %q", ErrUnknownRunwayDesignator, letter)
}

func (d RunwayDesignator) String() string {
	for l, v := range runwayDesignators {
		if v == d {
			return string(l)
		}
	}
	return ""
}

func (d RunwayDesignator) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *RunwayDesignator) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = RunwayDesignatorNone
		return nil
	}
	if len(s) != 1 {
		return fmt.Errorf("%w %q", ErrUnknownRunwayDesignator, s)
	}
	v, err := ParseRunwayDesignator(s[0])
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ApproachType is the host's encoding of an approach's navigation type.
type ApproachType int

const (
	ApproachNone ApproachType = iota
	ApproachGPS
	ApproachVOR
	ApproachNDB
	ApproachILS
	ApproachLOC
	ApproachSDF
	ApproachLDA
	ApproachVORDME
	ApproachNDBDME
	ApproachRNAV
	ApproachBackcourse
)

var approachTypeNames = []string{
	"NONE", "GPS", "VOR", "NDB", "ILS", "LOC", "SDF", "LDA", "VORDME", "NDBDME", "RNAV", "LOC-BC",
}

// approachTypes maps the first letter of an approach ident to the host
// approach type.
var approachTypes = map[byte]ApproachType{
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

// ApproachTypeForLetter maps the leading letter of an approach ident
// (e.g. 'I' of "I25L") to its host approach type.
func ApproachTypeForLetter(letter byte) (ApproachType, error) {
	if t, ok := approachTypes[letter]; ok {
		return t, nil
	}
	return ApproachNone, fmt.Errorf("%w %q", ErrUnknownApproachType, letter)
}

func (t ApproachType) String() string {
	if t >= 0 && int(t) < len(approachTypeNames) {
		return approachTypeNames[t]
	}
	return fmt.Sprintf("ApproachType(%d)", int(t))
}

func (t ApproachType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ApproachType) UnmarshalText(b []byte) error {
	s := strings.ToUpper(strings.TrimSpace(string(b)))
	for i, n := range approachTypeNames {
		if n == s {
			*t = ApproachType(i)
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownApproachType, s)
}
