package discovery

import "math"

const earthRadiusKm = 6371

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceKm is HaversineKm with optional coordinates. It returns nil
// when either pair is incomplete.
func DistanceKm(lat1, lon1, lat2, lon2 *float64) *float64 {
	if lat1 == nil || lon1 == nil || lat2 == nil || lon2 == nil {
		return nil
	}
	d := HaversineKm(*lat1, *lon1, *lat2, *lon2)
	return &d
}

func distanceBetween(a, b *Profile) *float64 {
	return DistanceKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// RoundKm rounds a distance to whole kilometres for display.
func RoundKm(d *float64) *int {
	if d == nil {
		return nil
	}
	r := int(math.Round(*d))
	return &r
}
