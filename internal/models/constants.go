package models

// Common constants used across the application
const (
	// UnknownValue is the fallback value when data is unavailable or calculation fails
	UnknownValue = "UNKNOWN"

	// defaultColor and defaultTextColor are used when a route has no colors
	defaultColor     = "#FFFFFF"
	defaultTextColor = "#000000"

	// uniqueIDSeparator joins the parts of a record identity key
	uniqueIDSeparator = "|"
)
