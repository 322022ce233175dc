package models

// Vehicle is the position of a vehicle serving a stop.
type Vehicle struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Live bool    `json:"live"`
}
