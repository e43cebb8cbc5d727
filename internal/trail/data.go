package trail

import "fmt"

// Reference data for the Olympic coast sections. Distances are miles from
// the southern terminus of each section. Restriction thresholds are tide
// heights in feet above MLLW. The Ozette River crossings carry a ford
// hazard: the river must be forded and the crossing can be dangerous at
// high tide or after heavy rain.

const (
	// La Push tide station
	defaultStation   = "9442396"
	defaultLatitude  = 47.9053
	defaultLongitude = -124.626
	defaultTimezone  = "America/Los_Angeles"
)

func defaultSections() map[string]*Section {
	return map[string]*Section{
		"south": {
			Name:      "south",
			Station:   defaultStation,
			Latitude:  defaultLatitude,
			Longitude: defaultLongitude,
			Timezone:  defaultTimezone,
			Locations: []Location{
				{Name: "Oil City", DistanceMiles: 0.0, Trailhead: true},
				{Name: "Headland trail north of Oil City", DistanceMiles: 0.6},
				{Name: "Jefferson Cove", DistanceMiles: 2.6},
				{Name: "Mosquito Creek", DistanceMiles: 6.1, Campsite: true},
				{Name: "Headland trail south of Goodman Creek", DistanceMiles: 8.3},
				{Name: "Headland trail north of Goodman Creek", DistanceMiles: 9.8},
				{Name: "Toleak Point", DistanceMiles: 10.7, Campsite: true},
				{Name: "Strawberry Point", DistanceMiles: 11.7, Campsite: true},
				{Name: "Scott Creek", DistanceMiles: 13.1, Campsite: true},
				{Name: "Headland trail north of Scotts Bluff", DistanceMiles: 13.4},
				{Name: "Headland trail south of Taylor Point", DistanceMiles: 14.0},
				{Name: "Headland trail on Strawberry Bay", DistanceMiles: 15.2},
				{Name: "Third Beach", DistanceMiles: 15.6, Campsite: true},
				{Name: "La Push Road", DistanceMiles: 17.0, Trailhead: true},
			},
			Restrictions: []Restriction{
				{ThresholdFeet: 5, StartMiles: 0.6, EndMiles: 0.8},
				{ThresholdFeet: 3, StartMiles: 1.4, EndMiles: 1.8},
				{ThresholdFeet: 2, StartMiles: 1.8, EndMiles: 2.2},
				{ThresholdFeet: 4, StartMiles: 12.5, EndMiles: 12.9},
				{ThresholdFeet: 1, StartMiles: 13.1, EndMiles: 13.4, HeadlandAlternative: true},
				{ThresholdFeet: 4.5, StartMiles: 14.0, EndMiles: 14.1, HeadlandAlternative: true},
			},
		},
		"middle": {
			Name:      "middle",
			Station:   defaultStation,
			Latitude:  defaultLatitude,
			Longitude: defaultLongitude,
			Timezone:  defaultTimezone,
			Locations: []Location{
				{Name: "Rialto Beach", DistanceMiles: 0.0, Trailhead: true},
				{Name: "Ellen Creek", DistanceMiles: 0.8},
				{Name: "Hole-in-the-Wall", DistanceMiles: 1.4, Campsite: true},
				{Name: "Chilean Memorial", DistanceMiles: 3.7, Campsite: true},
				{Name: "Cape Johnson", DistanceMiles: 4.4},
				{Name: "Headland trail south of Jagged Island", DistanceMiles: 6.6},
				{Name: "Headland trail north of Jagged Island", DistanceMiles: 7.6},
				{Name: "Cedar Creek", DistanceMiles: 8.8, Campsite: true},
				{Name: "Norwegian Memorial", DistanceMiles: 10.0, Campsite: true},
				{Name: "Yellow Banks", DistanceMiles: 15.1, Campsite: true},
				{Name: "South Sand Point", DistanceMiles: 16.6, Campsite: true},
				{Name: "Sand Point", DistanceMiles: 17.2, Campsite: true},
				{Name: "Ozette Trailhead", DistanceMiles: 20.2, Trailhead: true},
			},
			Restrictions: []Restriction{
				{ThresholdFeet: 5.0, StartMiles: 1.2, EndMiles: 1.6, HeadlandAlternative: true},
				{ThresholdFeet: 5.0, StartMiles: 2.3, EndMiles: 2.7},
				{ThresholdFeet: 4.0, StartMiles: 4.2, EndMiles: 4.6},
				{ThresholdFeet: 5.5, StartMiles: 5.0, EndMiles: 5.4},
				{ThresholdFeet: 4.0, StartMiles: 7.2, EndMiles: 7.8, HeadlandAlternative: true},
				{ThresholdFeet: 5.5, StartMiles: 8.8, EndMiles: 9.2, HeadlandAlternative: true},
				{ThresholdFeet: 6.0, StartMiles: 11.9, EndMiles: 12.3},
				{ThresholdFeet: 5.0, StartMiles: 14.9, EndMiles: 15.3},
			},
		},
		"north": {
			Name:      "north",
			Station:   defaultStation,
			Latitude:  defaultLatitude,
			Longitude: defaultLongitude,
			Timezone:  defaultTimezone,
			Locations: []Location{
				{Name: "Ozette Trailhead", DistanceMiles: 0.0, Trailhead: true},
				{Name: "Cape Alava", DistanceMiles: 3.3, Campsite: true},
				{Name: "Tskawahyah Island", DistanceMiles: 4.1},
				{Name: "South Side of Ozette River", DistanceMiles: 5.6, Campsite: true, FordHazard: true},
				{Name: "North Side of Ozette River", DistanceMiles: 5.7, Campsite: true, FordHazard: true},
				{Name: "Seafield Creek", DistanceMiles: 7.7, Campsite: true},
				{Name: "Point of Arches", DistanceMiles: 11.3},
				{Name: "Petroleum Creek", DistanceMiles: 12.3, Campsite: true},
				{Name: "Headland trail to Hatchery Road", DistanceMiles: 13.7},
				{Name: "Hatchery Road", DistanceMiles: 15.9, Trailhead: true},
			},
			Restrictions: []Restriction{
				{ThresholdFeet: 5.0, StartMiles: 4.7, EndMiles: 5.1},
				{ThresholdFeet: 4.0, StartMiles: 5.1, EndMiles: 5.5},
				{ThresholdFeet: 6.0, StartMiles: 5.9, EndMiles: 6.3},
				{ThresholdFeet: 5.5, StartMiles: 8.9, EndMiles: 9.2},
				{ThresholdFeet: 4.0, StartMiles: 9.2, EndMiles: 9.3, HeadlandAlternative: true},
				{ThresholdFeet: 6.0, StartMiles: 10.5, EndMiles: 10.9},
				{ThresholdFeet: 4.5, StartMiles: 11.2, EndMiles: 11.5, HeadlandAlternative: true},
			},
		},
	}
}

// SectionForLocations finds the section and direction of travel implied by a
// start and end location pair, searching all sections. Used by the tide plot
// operation, where the caller supplies locations rather than a section.
func SectionForLocations(sections map[string]*Section, startName, endName string) (*Section, Direction, error) {
	for _, sec := range sections {
		route := sec.Route(Northbound)
		si, sok := route.LocationIndex(startName)
		ei, eok := route.LocationIndex(endName)
		if !sok || !eok {
			continue
		}
		if si == ei {
			return nil, "", fmt.Errorf("start and end locations must be different")
		}
		if si < ei {
			return sec, Northbound, nil
		}
		return sec, Southbound, nil
	}
	return nil, "", fmt.Errorf("start and end locations must be in the same section")
}
