package fms

import "math"

// AltitudeDescriptor gives the meaning of Altitude1 and Altitude2 of an
// AltitudeConstraint. Values follow the ARINC 424 altitude description
// codes (in parentheses).
type AltitudeDescriptor int

const (
	AltitudeNone                   AltitudeDescriptor = iota
	AtAlt1                                            // @
	AtOrAboveAlt1                                     // +
	AtOrBelowAlt1                                     // -
	BetweenAlt1Alt2                                   // B
	AtOrAboveAlt2                                     // C
	AtAlt1GsMslAlt2                                   // G
	AtOrAboveAlt1GsMslAlt2                            // H
	AtAlt1GsIntcptAlt2                                // I
	AtOrAboveAlt1GsIntcptAlt2                         // J
	AtOrAboveAlt1AngleAlt2                            // V
	AtAlt1AngleAlt2                                   // X
	AtOrBelowAlt1AngleAlt2                            // Y
)

type AltitudeConstraint struct {
	Descriptor AltitudeDescriptor `yaml:"descriptor" json:"descriptor"`
	Altitude1  float64            `yaml:"altitude1,omitempty" json:"altitude1,omitempty"`
	Altitude2  float64            `yaml:"altitude2,omitempty" json:"altitude2,omitempty"`
}

type SpeedDescriptor int

const (
	SpeedNone SpeedDescriptor = iota
	SpeedMandatory
	SpeedMinimum
	SpeedMaximum
)

type SpeedConstraint struct {
	Descriptor SpeedDescriptor `yaml:"descriptor" json:"descriptor"`
	Speed      float64         `yaml:"speed" json:"speed"`
}

// MinimumAltitude returns the lowest altitude, in feet, allowed by c.
// A nil constraint or one that sets no floor yields -Inf.
//
// For a "between" constraint Altitude1 is the upper and Altitude2 the lower
// bound.
func MinimumAltitude(c *AltitudeConstraint) float64 {
	if c == nil {
		return math.Inf(-1)
	}
	switch c.Descriptor {
	case AtAlt1, AtAlt1GsIntcptAlt2, AtAlt1AngleAlt2,
		AtOrAboveAlt1, AtOrAboveAlt1GsIntcptAlt2, AtOrAboveAlt1AngleAlt2:
		return c.Altitude1
	case BetweenAlt1Alt2:
		return c.Altitude2
	default:
		return math.Inf(-1)
	}
}

// MaximumAltitude returns the highest altitude, in feet, allowed by c.
// A nil constraint or one that sets no ceiling yields +Inf.
func MaximumAltitude(c *AltitudeConstraint) float64 {
	if c == nil {
		return math.Inf(1)
	}
	switch c.Descriptor {
	case AtAlt1, AtAlt1GsIntcptAlt2, AtAlt1AngleAlt2,
		AtOrBelowAlt1, AtOrBelowAlt1AngleAlt2, BetweenAlt1Alt2:
		return c.Altitude1
	default:
		return math.Inf(1)
	}
}

// MinimumSpeed returns the lowest speed in knots allowed by c, or 0.
func MinimumSpeed(c *SpeedConstraint) float64 {
	if c == nil {
		return 0
	}
	switch c.Descriptor {
	case SpeedMandatory, SpeedMinimum:
		return c.Speed
	default:
		return 0
	}
}

// MaximumSpeed returns the highest speed in knots allowed by c, or +Inf.
func MaximumSpeed(c *SpeedConstraint) float64 {
	if c == nil {
		return math.Inf(1)
	}
	switch c.Descriptor {
	case SpeedMandatory, SpeedMaximum:
		return c.Speed
	default:
		return math.Inf(1)
	}
}

// AltitudeWindow returns the effective altitude bounds of the leg.
func (l Leg) AltitudeWindow() (lo, hi float64) {
	return MinimumAltitude(l.Altitude), MaximumAltitude(l.Altitude)
}
