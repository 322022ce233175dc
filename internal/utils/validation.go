package utils

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

const (
	MinZoom = 0
	MaxZoom = 22
)

// ValidateID checks an identity key such as "MTA NYCT|B63|308209". Stop ids
// and group keys are opaque, so anything printable is accepted.
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 200 {
		return errors.New("id too long (max 200 characters)")
	}

	if !utf8.ValidString(id) {
		return errors.New("id contains invalid characters")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return errors.New("id contains invalid characters")
		}
	}

	return nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

func ValidateZoom(zoom int) error {
	if zoom < MinZoom || zoom > MaxZoom {
		return errors.New("zoom must be between 0 and 22")
	}
	return nil
}

// ValidateViewportParams validates a complete set of viewport parameters
func ValidateViewportParams(lat, lon, swLat, swLon, neLat, neLon float64, zoom int) map[string][]string {
	fieldErrors := make(map[string][]string)

	latFields := map[string]float64{"lat": lat, "sw_lat": swLat, "ne_lat": neLat}
	for field, v := range latFields {
		if err := ValidateLatitude(v); err != nil {
			fieldErrors[field] = append(fieldErrors[field], err.Error())
		}
	}

	lonFields := map[string]float64{"lon": lon, "sw_lon": swLon, "ne_lon": neLon}
	for field, v := range lonFields {
		if err := ValidateLongitude(v); err != nil {
			fieldErrors[field] = append(fieldErrors[field], err.Error())
		}
	}

	if swLat > neLat {
		fieldErrors["sw_lat"] = append(fieldErrors["sw_lat"], "sw_lat must not be north of ne_lat")
	}

	if err := ValidateZoom(zoom); err != nil {
		fieldErrors["zoom"] = append(fieldErrors["zoom"], err.Error())
	}

	return fieldErrors
}
