package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/land-resolver/app/models"
)

// APIRecord is one listing-site transaction record. Coordinates and
// community names come from this source; the structural columns are
// thinner than the CSV's.
type APIRecord struct {
	City         string   `json:"city"`
	Town         string   `json:"town"`
	Address      string   `json:"address"`
	BuildingType string   `json:"build_type"`
	Community    string   `json:"community"`
	Date         string   `json:"date"`
	Floor        string   `json:"floor"`
	Area         *float64 `json:"area"`
	TotalPrice   *int64   `json:"total_price"`
	UnitPrice    *float64 `json:"unit_price"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`

	Detail struct {
		Floor           string `json:"f"`
		TransactionType string `json:"t"`
		Rooms           *int   `json:"r"`
		Halls           *int   `json:"h"`
		Bathrooms       *int   `json:"b"`
	} `json:"detail"`
}

// ReadAPI decodes a JSON array of listing records.
func ReadAPI(r io.Reader) ([]models.RawRecord, error) {
	var api []APIRecord
	if err := json.NewDecoder(r).Decode(&api); err != nil {
		return nil, fmt.Errorf("decode api records: %w", err)
	}
	records := make([]models.RawRecord, 0, len(api))
	for i := range api {
		records = append(records, api[i].ToRaw())
	}
	return records, nil
}

// ToRaw maps an API record onto the common raw shape.
func (a *APIRecord) ToRaw() models.RawRecord {
	floorField := a.Detail.Floor
	if floorField == "" {
		floorField = a.Floor
	}
	floorLevel, totalFloors := splitFloorInfo(floorField)

	return models.RawRecord{
		RawDistrict:     a.Town,
		TransactionType: a.Detail.TransactionType,
		Address:         cleanListingAddress(a.Address),
		TransactionDate: a.Date,
		FloorLevel:      floorLevel,
		TotalFloors:     totalFloors,
		BuildingType:    a.BuildingType,
		BuildingArea:    a.Area,
		Rooms:           a.Detail.Rooms,
		Halls:           a.Detail.Halls,
		Bathrooms:       a.Detail.Bathrooms,
		TotalPrice:      a.TotalPrice,
		UnitPrice:       a.UnitPrice,
		CommunityName:   a.Community,
		Lat:             a.Lat,
		Lng:             a.Lng,
		Source:          "api",
	}
}

// cleanListingAddress keeps the part after '#'; listing addresses prefix
// an internal id ("12345#台北市...").
func cleanListingAddress(addr string) string {
	if i := strings.IndexByte(addr, '#'); i >= 0 {
		return addr[i+1:]
	}
	return addr
}

// splitFloorInfo splits "九層/十五層" into level and total floors.
func splitFloorInfo(s string) (level, total string) {
	if s == "" {
		return "", ""
	}
	parts := strings.SplitN(s, "/", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(s), ""
}
