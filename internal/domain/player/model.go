package player

import "encoding/json"

// Record is one player object exactly as returned by the stats provider.
// Records are kept raw so the upload preserves field order and values; no
// schema conformance check happens before the object lands in the lake.
type Record = json.RawMessage

// Column is one typed column declared to the data catalog.
type Column struct {
	Name string
	Type string
}

// CatalogSchema is the fixed schema registered for the player table. These
// are the fields observed in provider responses; extra fields in a record
// are uploaded but not declared.
func CatalogSchema() []Column {
	return []Column{
		{Name: "PlayerID", Type: "int"},
		{Name: "FirstName", Type: "string"},
		{Name: "LastName", Type: "string"},
		{Name: "Team", Type: "string"},
		{Name: "Position", Type: "string"},
		{Name: "Points", Type: "int"},
	}
}
