// Package routing implements the pure route-generation pipeline: grouping
// eligible services per hotel, ordering hotels by priority and proximity, and
// materializing the ordered stop sequence. Nothing in this package touches
// storage or the clock; the target date is always an explicit parameter.
package routing

import "math"

// earthRadiusKm is the mean radius of Earth used by the haversine formula.
const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// points given in decimal degrees. Out-of-range coordinates are the caller's
// problem; every call site validates presence of coordinates first.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLon := degToRad(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*sinLon*sinLon

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
