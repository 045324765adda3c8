package models

import "strings"

// TransactionRecord is one row of the land_transaction table: the 33 raw
// columns of the government CSV plus the parsed address parts, community
// name and coordinates filled in by the pipeline.
type TransactionRecord struct {
	ID int64 `json:"id"`

	// Raw columns as published.
	RawDistrict      string   `json:"raw_district"`
	TransactionType  string   `json:"transaction_type"`
	Address          string   `json:"address"`
	LandArea         *float64 `json:"land_area"`
	UrbanZone        string   `json:"urban_zone"`
	NonUrbanZone     string   `json:"non_urban_zone"`
	NonUrbanUse      string   `json:"non_urban_use"`
	TransactionDate  string   `json:"transaction_date"`
	TransactionCount string   `json:"transaction_count"`
	FloorLevel       string   `json:"floor_level"`
	TotalFloors      string   `json:"total_floors"`
	BuildingType     string   `json:"building_type"`
	MainUse          string   `json:"main_use"`
	MainMaterial     string   `json:"main_material"`
	BuildDate        string   `json:"build_date"`
	BuildingArea     *float64 `json:"building_area"`
	Rooms            *int     `json:"rooms"`
	Halls            *int     `json:"halls"`
	Bathrooms        *int     `json:"bathrooms"`
	Partitioned      string   `json:"partitioned"`
	HasManagement    string   `json:"has_management"`
	TotalPrice       *int64   `json:"total_price"`
	UnitPrice        *float64 `json:"unit_price"`
	ParkingType      string   `json:"parking_type"`
	ParkingArea      *float64 `json:"parking_area"`
	ParkingPrice     *int64   `json:"parking_price"`
	Note             string   `json:"note"`
	SerialNo         string   `json:"serial_no"`
	MainArea         *float64 `json:"main_area"`
	AttachedArea     *float64 `json:"attached_area"`
	BalconyArea      *float64 `json:"balcony_area"`
	Elevator         string   `json:"elevator"`
	TransferNo       string   `json:"transfer_no"`

	// Parsed address parts (storage form).
	CountyCity string `json:"county_city"`
	District   string `json:"district"`
	Village    string `json:"village"`
	Street     string `json:"street"`
	Lane       string `json:"lane"`
	Alley      string `json:"alley"`
	Number     string `json:"number"`
	Floor      string `json:"floor"`
	SubNumber  string `json:"sub_number"`

	// Enrichment.
	CommunityName string   `json:"community_name"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`

	DedupKey string `json:"-"`
}

// DateKey returns the first 7 digits of the slash-stripped ROC
// transaction date, the date component of both dedup keys.
func (r *TransactionRecord) DateKey() string {
	d := strings.ReplaceAll(r.TransactionDate, "/", "")
	if len(d) > 7 {
		return d[:7]
	}
	return d
}

// RawRecord is what a source adapter hands to the ingest pipeline before
// normalization and parsing. Address and TransactionDate are required,
// everything else is best effort.
type RawRecord struct {
	RawDistrict      string
	TransactionType  string
	Address          string
	LandArea         *float64
	UrbanZone        string
	NonUrbanZone     string
	NonUrbanUse      string
	TransactionDate  string
	TransactionCount string
	FloorLevel       string
	TotalFloors      string
	BuildingType     string
	MainUse          string
	MainMaterial     string
	BuildDate        string
	BuildingArea     *float64
	Rooms            *int
	Halls            *int
	Bathrooms        *int
	Partitioned      string
	HasManagement    string
	TotalPrice       *int64
	UnitPrice        *float64
	ParkingType      string
	ParkingArea      *float64
	ParkingPrice     *int64
	Note             string
	SerialNo         string
	MainArea         *float64
	AttachedArea     *float64
	BalconyArea      *float64
	Elevator         string
	TransferNo       string

	CommunityName string
	Lat           *float64
	Lng           *float64

	// CityCode is the MOI source hint (A=台北市 ...), when the source
	// carries one. Used for disambiguation only, never stored.
	CityCode string

	Source string
}
