// Package mapping translates host facility records into flight management
// waypoints. It never mutates its input.
package mapping

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
)

// Waypoint maps a host facility to a flight management waypoint.
//
// The waypoint is terminal when the facility identifier carries an owning
// airport, enroute otherwise. Names arrive from the host in mixed
// normalization forms and are normalized to NFC.
func Waypoint(f host.Facility) fms.Waypoint {
	area := fms.AreaEnroute
	if f.ICAO.Airport() != "" {
		area = fms.AreaTerminal
	}
	return fms.Waypoint{
		DatabaseID: string(f.ICAO),
		ICAOCode:   f.ICAO.Region(),
		Ident:      f.ICAO.Ident(),
		Name:       norm.NFC.String(strings.TrimSpace(f.Name)),
		Location:   fms.LatLong{Lat: f.Lat, Long: f.Long},
		Area:       area,
	}
}

// Facility is the inverse of Waypoint for the fields the host keeps.
func Facility(w fms.Waypoint) host.Facility {
	return host.Facility{
		ICAO: host.ICAO(w.DatabaseID),
		Name: w.Name,
		Lat:  w.Location.Lat,
		Long: w.Location.Long,
	}
}
