// Package trail holds the static coast trail reference data: ordered
// locations per coast section and the tidal restrictions between them.
// The data is loaded and validated once at startup; malformed reference
// data is a fatal condition, not a per-request error.
package trail

import (
	"fmt"
	"time"

	"github.com/treklab/coasttrek/pkg/config"
)

// Direction is the direction of travel along a coast section.
type Direction string

const (
	Northbound Direction = "north"
	Southbound Direction = "south"
)

// ParseDirection validates a direction string from the request boundary.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Northbound, Southbound:
		return Direction(s), nil
	}
	return "", fmt.Errorf("direction must be %q or %q", Northbound, Southbound)
}

// Location is a named point along a coast section. Distances are measured
// in miles from the southern terminus of the section.
type Location struct {
	Name          string
	DistanceMiles float64
	Campsite      bool
	Trailhead     bool
	FordHazard    bool
}

// Restriction is a stretch of coast that is only passable when the tide is
// at or below ThresholdFeet. A restriction with a headland alternative can
// always be bypassed inland and never blocks travel.
type Restriction struct {
	ThresholdFeet       float64
	StartMiles          float64
	EndMiles            float64
	HeadlandAlternative bool
}

// Section is one of the coast sections, with its locations and restrictions
// ordered south to north, plus the tide station and observer settings used
// for tide and daylight lookups.
type Section struct {
	Name         string
	Station      string
	Latitude     float64
	Longitude    float64
	Timezone     string
	Locations    []Location
	Restrictions []Restriction
}

// TimezoneLocation resolves the section's IANA timezone.
func (s *Section) TimezoneLocation() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Validate checks the section's reference data for internal consistency.
func (s *Section) Validate() error {
	if len(s.Locations) < 2 {
		return fmt.Errorf("section %s: needs at least two locations", s.Name)
	}
	if !s.Locations[0].Trailhead || !s.Locations[len(s.Locations)-1].Trailhead {
		return fmt.Errorf("section %s: first and last locations must be trailheads", s.Name)
	}
	if s.Station == "" {
		return fmt.Errorf("section %s: tide station is required", s.Name)
	}
	if _, err := s.TimezoneLocation(); err != nil {
		return fmt.Errorf("section %s: invalid timezone %q: %v", s.Name, s.Timezone, err)
	}
	seen := make(map[string]bool, len(s.Locations))
	for i, loc := range s.Locations {
		if loc.Name == "" {
			return fmt.Errorf("section %s: location %d has no name", s.Name, i)
		}
		if seen[loc.Name] {
			return fmt.Errorf("section %s: duplicate location name %q", s.Name, loc.Name)
		}
		seen[loc.Name] = true
		if loc.DistanceMiles < 0 {
			return fmt.Errorf("section %s: location %q has a negative distance", s.Name, loc.Name)
		}
		if i > 0 && loc.DistanceMiles <= s.Locations[i-1].DistanceMiles {
			return fmt.Errorf("section %s: location distances must be strictly increasing at %q", s.Name, loc.Name)
		}
	}
	maxDistance := s.Locations[len(s.Locations)-1].DistanceMiles
	for i, r := range s.Restrictions {
		if r.ThresholdFeet <= 0 {
			return fmt.Errorf("section %s: restriction %d has a non-positive threshold", s.Name, i)
		}
		if r.StartMiles < 0 || r.StartMiles >= r.EndMiles || r.EndMiles > maxDistance {
			return fmt.Errorf("section %s: restriction %d has invalid span [%.1f, %.1f]", s.Name, i, r.StartMiles, r.EndMiles)
		}
		if i > 0 && r.StartMiles < s.Restrictions[i-1].EndMiles {
			return fmt.Errorf("section %s: restriction %d overlaps the previous restriction", s.Name, i)
		}
	}
	return nil
}

// Route is a section oriented along a direction of travel. Location and
// restriction distances are measured from the start of the hike.
type Route struct {
	Section      *Section
	Direction    Direction
	Locations    []Location
	Restrictions []Restriction
}

// Route orients the section for the given direction of travel. Distances
// in the reference data run south to north, so a southbound hike sees them
// reversed and re-measured from the northern terminus.
func (s *Section) Route(dir Direction) *Route {
	r := &Route{Section: s, Direction: dir}
	if dir == Northbound {
		r.Locations = append([]Location(nil), s.Locations...)
		r.Restrictions = append([]Restriction(nil), s.Restrictions...)
		return r
	}

	maxDistance := s.Locations[len(s.Locations)-1].DistanceMiles
	r.Locations = make([]Location, len(s.Locations))
	for i, loc := range s.Locations {
		loc.DistanceMiles = maxDistance - loc.DistanceMiles
		r.Locations[len(s.Locations)-1-i] = loc
	}
	r.Restrictions = make([]Restriction, len(s.Restrictions))
	for i, res := range s.Restrictions {
		start, end := res.StartMiles, res.EndMiles
		res.StartMiles = maxDistance - end
		res.EndMiles = maxDistance - start
		r.Restrictions[len(s.Restrictions)-1-i] = res
	}
	return r
}

// LocationIndex finds a location on the route by name.
func (r *Route) LocationIndex(name string) (int, bool) {
	for i, loc := range r.Locations {
		if loc.Name == name {
			return i, true
		}
	}
	return 0, false
}

// CampsiteIndexes returns the indexes of all campsites strictly between the
// route endpoints, in travel order.
func (r *Route) CampsiteIndexes() []int {
	var idxs []int
	for i := 1; i < len(r.Locations)-1; i++ {
		if r.Locations[i].Campsite {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// Leg is a single day's stretch of a route between two locations.
// Restriction offsets are relative to the leg start and clipped to the leg.
type Leg struct {
	Start         Location
	End           Location
	DistanceMiles float64
	Restrictions  []Restriction
	FordHazard    bool
}

// Leg builds the leg between two location indexes on the route.
func (r *Route) Leg(from, to int) (Leg, error) {
	if from < 0 || to >= len(r.Locations) || from >= to {
		return Leg{}, fmt.Errorf("invalid leg from index %d to %d", from, to)
	}
	start := r.Locations[from]
	end := r.Locations[to]
	leg := Leg{
		Start:         start,
		End:           end,
		DistanceMiles: end.DistanceMiles - start.DistanceMiles,
	}
	for _, res := range r.Restrictions {
		if res.EndMiles < start.DistanceMiles || res.StartMiles > end.DistanceMiles {
			continue
		}
		clipped := res
		clipped.StartMiles = max(res.StartMiles, start.DistanceMiles) - start.DistanceMiles
		clipped.EndMiles = min(res.EndMiles, end.DistanceMiles) - start.DistanceMiles
		if clipped.StartMiles >= clipped.EndMiles {
			continue
		}
		leg.Restrictions = append(leg.Restrictions, clipped)
	}
	for i := from; i <= to; i++ {
		if r.Locations[i].FordHazard {
			leg.FordHazard = true
		}
	}
	return leg, nil
}

// LoadSections builds the section registry from the embedded reference data,
// applies any config overrides, and validates everything.
func LoadSections(overrides []config.SectionData) (map[string]*Section, error) {
	sections := defaultSections()
	for _, o := range overrides {
		sec, ok := sections[o.Name]
		if !ok {
			return nil, fmt.Errorf("section override %q does not match a known section", o.Name)
		}
		if o.Station != "" {
			sec.Station = o.Station
		}
		if o.Latitude != 0 {
			sec.Latitude = o.Latitude
		}
		if o.Longitude != 0 {
			sec.Longitude = o.Longitude
		}
		if o.Timezone != "" {
			sec.Timezone = o.Timezone
		}
	}
	for _, sec := range sections {
		if err := sec.Validate(); err != nil {
			return nil, err
		}
	}
	return sections, nil
}
