// Package daylight computes the sunrise-sunset window for a location and
// calendar date. No caching happens here; the computation is pure and
// callers may memoize by (location, date).
package daylight

import (
	"errors"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"
)

// ErrPolarNight indicates the sun never rises on the requested date.
var ErrPolarNight = errors.New("sun does not rise on this date at this latitude")

// Window is the span between sunrise and sunset for one location and date.
type Window struct {
	Sunrise time.Time
	Sunset  time.Time
}

// Standard altitude of the sun's center at rise and set, accounting for
// refraction and the solar semidiameter.
const riseSetAltitudeDeg = -0.833

func fixAngle(a float64) float64 { return a - 360.0*math.Floor(a/360.0) }

// Compute returns the daylight window for the calendar date of day, at the
// given observer coordinates. Results carry day's timezone. Sunrise and
// sunset are anchored to the UTC day of the civil date, which holds for the
// western-hemisphere longitudes this service covers.
func Compute(day time.Time, latitude, longitude float64) (Window, error) {
	year, month, dom := day.Date()
	noonUTC := time.Date(year, month, dom, 12, 0, 0, 0, time.UTC)
	jd := julian.TimeToJD(noonUTC)
	T := (jd - 2451545.0) / 36525.0

	// Solar position series, low-precision form
	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(unit.AngleFromDeg(M).Rad())*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(unit.AngleFromDeg(2*M).Rad())*(0.019993-T*0.000101) +
		math.Sin(unit.AngleFromDeg(3*M).Rad())*0.000289
	sunLong := L0 + C
	omega := 125.04 - 1934.136*T
	lambda := sunLong - 0.00569 - 0.00478*math.Sin(unit.AngleFromDeg(omega).Rad())
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	declRad := math.Asin(math.Sin(unit.AngleFromDeg(eps0).Rad()) * math.Sin(unit.AngleFromDeg(lambda).Rad()))

	// Equation of time in minutes
	y := math.Tan(unit.AngleFromDeg(eps0).Rad()/2) * math.Tan(unit.AngleFromDeg(eps0).Rad()/2)
	eqTimeMin := unit.Angle(y*math.Sin(unit.AngleFromDeg(2*L0).Rad())-
		2*e*math.Sin(unit.AngleFromDeg(M).Rad())+
		4*e*y*math.Sin(unit.AngleFromDeg(M).Rad())*math.Cos(unit.AngleFromDeg(2*L0).Rad())-
		0.5*y*y*math.Sin(unit.AngleFromDeg(4*L0).Rad())-
		1.25*e*e*math.Sin(unit.AngleFromDeg(2*M).Rad())).Deg() * 4

	// Hour angle at the rise/set altitude
	latRad := unit.AngleFromDeg(latitude).Rad()
	cosH0 := (math.Sin(unit.AngleFromDeg(riseSetAltitudeDeg).Rad()) - math.Sin(latRad)*math.Sin(declRad)) /
		(math.Cos(latRad) * math.Cos(declRad))

	baseUTC := time.Date(year, month, dom, 0, 0, 0, 0, time.UTC)
	loc := day.Location()

	if cosH0 > 1 {
		return Window{}, ErrPolarNight
	}
	if cosH0 < -1 {
		// Polar day: the sun never sets, so the whole day is usable.
		return Window{
			Sunrise: baseUTC.In(loc),
			Sunset:  baseUTC.Add(24 * time.Hour).In(loc),
		}, nil
	}

	hourAngleMin := unit.Angle(math.Acos(cosH0)).Deg() * 4
	solarNoonMin := 720.0 - 4.0*longitude - eqTimeMin

	sunrise := baseUTC.Add(minutes(solarNoonMin - hourAngleMin)).In(loc)
	sunset := baseUTC.Add(minutes(solarNoonMin + hourAngleMin)).In(loc)
	return Window{Sunrise: sunrise, Sunset: sunset}, nil
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
