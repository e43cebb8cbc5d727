// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// Version holds the application version information
const Version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

// MaxTripSpanDays bounds the start-to-end date span of a route search.
const MaxTripSpanDays = 7

// Request parameter defaults, matching the recommended values for the
// rocky terrain along the coast.
const (
	DefaultMinDailyDistanceMiles = 3.0
	DefaultMaxDailyDistanceMiles = 10.0
	DefaultSpeedMPH              = 1.0
	DefaultBufferFeet            = 2.0
)
