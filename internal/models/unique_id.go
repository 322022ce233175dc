package models

import "strings"

// UniqueID joins identity parts the same way the data source does,
// e.g. "MTA NYCT|B63" or "MTA NYCT|B63|308209".
func UniqueID(parts ...string) string {
	return strings.Join(parts, uniqueIDSeparator)
}
