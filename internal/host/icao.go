package host

import "strings"

// ICAO is a host facility identifier: a 12 character string laid out as
//
//	T RR AAAA IIIII
//
// with T the facility type, RR the ICAO region, AAAA the owning airport for
// terminal facilities and IIIII the ident, each space padded.
type ICAO string

const icaoLen = 12

// Facility type characters.
const (
	FacilityAirport      byte = 'A'
	FacilityIntersection byte = 'W'
	FacilityVOR          byte = 'V'
	FacilityNDB          byte = 'N'
	FacilityUser         byte = 'U'
	FacilityRunway       byte = 'R'
	FacilityVisual       byte = 'S'
)

var facilityTypes = map[byte]bool{
	FacilityAirport:      true,
	FacilityIntersection: true,
	FacilityVOR:          true,
	FacilityNDB:          true,
	FacilityUser:         true,
	FacilityRunway:       true,
	FacilityVisual:       true,
}

// MakeICAO assembles a padded identifier.
func MakeICAO(typ byte, region, airport, ident string) ICAO {
	var sb strings.Builder
	sb.Grow(icaoLen)
	sb.WriteByte(typ)
	sb.WriteString(pad(region, 2))
	sb.WriteString(pad(airport, 4))
	sb.WriteString(pad(ident, 5))
	return ICAO(sb.String())
}

// AirportICAO returns the identifier of the airport with the given ident.
// Only the first four characters of ident are used.
func AirportICAO(ident string) ICAO {
	if len(ident) > 4 {
		ident = ident[:4]
	}
	return MakeICAO(FacilityAirport, "", "", ident)
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

func (i ICAO) field(lo, hi int) string {
	if len(i) <= lo {
		return ""
	}
	if len(i) < hi {
		hi = len(i)
	}
	return strings.TrimSpace(string(i)[lo:hi])
}

// Type returns the facility type character, or 0 for an empty id.
func (i ICAO) Type() byte {
	if len(i) == 0 {
		return 0
	}
	return i[0]
}

func (i ICAO) Region() string  { return i.field(1, 3) }
func (i ICAO) Airport() string { return i.field(3, 7) }
func (i ICAO) Ident() string   { return i.field(7, icaoLen) }

// IsBlank reports whether the identifier has no content.
func (i ICAO) IsBlank() bool {
	return strings.TrimSpace(string(i)) == ""
}

// IsFacility reports whether i is a well formed facility identifier: a known
// type character and a non-empty ident.
func (i ICAO) IsFacility() bool {
	return len(i) > 7 && facilityTypes[i.Type()] && i.Ident() != ""
}

// IsAirport reports whether i names an airport facility.
func (i ICAO) IsAirport() bool {
	return i.Type() == FacilityAirport
}
