package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/swipe-matcher/internal/types"
)

// DefaultSearchRadiusKm is used when neither the user nor the config sets a radius
const DefaultSearchRadiusKm = types.DefaultSearchRadius

// Location returns a location scorer that decays to 0 at radiusKm
func Location(radiusKm float64) func(*types.CandidateProfile, *types.JobListing) float64 {
	if radiusKm <= 0 {
		radiusKm = DefaultSearchRadiusKm
	}
	return func(c *types.CandidateProfile, j *types.JobListing) float64 {
		return locationScore(c, j, radiusKm)
	}
}

func locationScore(c *types.CandidateProfile, j *types.JobListing, radiusKm float64) float64 {
	if j.WorkMode == types.WorkModeRemote {
		return 100
	}

	if sameCity(c.Location, j.Location) {
		return 100
	}

	if !c.Location.HasCoordinates() || !j.Location.HasCoordinates() {
		return 0
	}

	d := haversineDistance(*c.Location.Latitude, *c.Location.Longitude, *j.Location.Latitude, *j.Location.Longitude)
	if d >= radiusKm {
		return 0
	}
	return 100 * (1 - d/radiusKm)
}

func sameCity(a, b types.Location) bool {
	city := strings.TrimSpace(a.City)
	country := strings.TrimSpace(a.Country)
	if city == "" || country == "" {
		return false
	}
	return strings.EqualFold(city, strings.TrimSpace(b.City)) &&
		strings.EqualFold(country, strings.TrimSpace(b.Country))
}

// haversineDistance calculates the great-circle distance between two points in kilometers.
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
