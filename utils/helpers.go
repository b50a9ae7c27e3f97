package utils

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const earthRadiusMeters = 6371e3

// Distance returns the Haversine distance in whole meters between two
// lat/lng points.
func Distance(lat1, lng1, lat2, lng2 float64) int {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int(math.Round(earthRadiusMeters * c))
}

// WalkingMinutes estimates walking time for a distance, assuming 80 m/min
// (about 4.8 km/h). Rounds up; never below 1 minute.
func WalkingMinutes(distanceMeters int) int {
	if distanceMeters <= 0 {
		return 1
	}
	minutes := int(math.Ceil(float64(distanceMeters) / 80))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// NormalizeTag canonicalizes a user-supplied tag: trimmed and NFC-normalized
// so visually identical tags compare equal.
func NormalizeTag(tag string) string {
	return norm.NFC.String(strings.TrimSpace(tag))
}

// NormalizeTags normalizes a tag list, dropping empties and duplicates while
// keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = NormalizeTag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
