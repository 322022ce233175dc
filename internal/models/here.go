package models

import "encoding/json"

// HereQuery asks the data source for stops around a point.
type HereQuery struct {
	Lat        float64 `validate:"latitude"`
	Lon        float64 `validate:"longitude"`
	Bounds     Bounds
	RouteTypes []RouteType
	Filter     json.RawMessage
}

// HereResponse is the reply to a HereQuery. Routes, trips and the filter are
// optional. Filter is opaque and is passed back unchanged on the next query.
type HereResponse struct {
	Stops  []*Stop         `json:"stops"`
	Routes []*Route        `json:"routes,omitempty"`
	Trips  []*Trip         `json:"trips,omitempty"`
	Filter json.RawMessage `json:"filter,omitempty"`
}

type RoutesResponse struct {
	Routes []*Route `json:"routes"`
}
