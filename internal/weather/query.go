package weather

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ParseQuery builds a Query from request parameters.
// A well-formed lat/lon pair wins over city; a malformed pair falls through
// to city. With neither it returns ErrQueryRequired.
func ParseQuery(values url.Values) (Query, error) {
	if lat, lon, ok := parseCoordinates(values.Get("lat"), values.Get("lon")); ok {
		return CoordinateQuery{Lat: lat, Lon: lon}, nil
	}

	if city := strings.TrimSpace(values.Get("city")); city != "" {
		return CityQuery{Name: city}, nil
	}

	return nil, ErrQueryRequired
}

func parseCoordinates(latStr, lonStr string) (lat, lon float64, ok bool) {
	lat, ok = parseFinite(latStr)
	if !ok {
		return 0, 0, false
	}
	lon, ok = parseFinite(lonStr)
	if !ok {
		return 0, 0, false
	}
	return lat, lon, true
}

func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
