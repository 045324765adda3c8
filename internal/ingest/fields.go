package ingest

import "github.com/land-resolver/app/models"

// enrichField describes one fill-if-empty column: when the existing row
// is empty there and the incoming record has a value, the value is copied.
// Existing values are never overwritten.
type enrichField struct {
	column string
	empty  func(*models.TransactionRecord) bool
	value  func(*models.TransactionRecord) (any, bool)
	copy   func(dst, src *models.TransactionRecord)
}

func strField(column string, get func(*models.TransactionRecord) *string) enrichField {
	return enrichField{
		column: column,
		empty:  func(r *models.TransactionRecord) bool { return *get(r) == "" },
		value: func(r *models.TransactionRecord) (any, bool) {
			if v := *get(r); v != "" {
				return v, true
			}
			return nil, false
		},
		copy: func(dst, src *models.TransactionRecord) { *get(dst) = *get(src) },
	}
}

func floatField(column string, get func(*models.TransactionRecord) **float64) enrichField {
	return enrichField{
		column: column,
		empty: func(r *models.TransactionRecord) bool {
			p := *get(r)
			return p == nil || *p == 0
		},
		value: func(r *models.TransactionRecord) (any, bool) {
			if p := *get(r); p != nil && *p != 0 {
				return *p, true
			}
			return nil, false
		},
		copy: func(dst, src *models.TransactionRecord) { *get(dst) = *get(src) },
	}
}

func intField(column string, get func(*models.TransactionRecord) **int) enrichField {
	return enrichField{
		column: column,
		empty:  func(r *models.TransactionRecord) bool { return *get(r) == nil },
		value: func(r *models.TransactionRecord) (any, bool) {
			if p := *get(r); p != nil {
				return *p, true
			}
			return nil, false
		},
		copy: func(dst, src *models.TransactionRecord) { *get(dst) = *get(src) },
	}
}

func int64Field(column string, get func(*models.TransactionRecord) **int64) enrichField {
	return enrichField{
		column: column,
		empty: func(r *models.TransactionRecord) bool {
			p := *get(r)
			return p == nil || *p == 0
		},
		value: func(r *models.TransactionRecord) (any, bool) {
			if p := *get(r); p != nil && *p != 0 {
				return *p, true
			}
			return nil, false
		},
		copy: func(dst, src *models.TransactionRecord) { *get(dst) = *get(src) },
	}
}

// enrichFields enumerates every column a richer duplicate may fill in.
var enrichFields = []enrichField{
	floatField("lat", func(r *models.TransactionRecord) **float64 { return &r.Lat }),
	floatField("lng", func(r *models.TransactionRecord) **float64 { return &r.Lng }),
	strField("community_name", func(r *models.TransactionRecord) *string { return &r.CommunityName }),
	strField("county_city", func(r *models.TransactionRecord) *string { return &r.CountyCity }),
	strField("building_type", func(r *models.TransactionRecord) *string { return &r.BuildingType }),
	strField("main_use", func(r *models.TransactionRecord) *string { return &r.MainUse }),
	strField("main_material", func(r *models.TransactionRecord) *string { return &r.MainMaterial }),
	strField("build_date", func(r *models.TransactionRecord) *string { return &r.BuildDate }),
	strField("has_management", func(r *models.TransactionRecord) *string { return &r.HasManagement }),
	strField("partitioned", func(r *models.TransactionRecord) *string { return &r.Partitioned }),
	strField("elevator", func(r *models.TransactionRecord) *string { return &r.Elevator }),
	strField("urban_zone", func(r *models.TransactionRecord) *string { return &r.UrbanZone }),
	intField("rooms", func(r *models.TransactionRecord) **int { return &r.Rooms }),
	intField("halls", func(r *models.TransactionRecord) **int { return &r.Halls }),
	intField("bathrooms", func(r *models.TransactionRecord) **int { return &r.Bathrooms }),
	floatField("land_area", func(r *models.TransactionRecord) **float64 { return &r.LandArea }),
	floatField("building_area", func(r *models.TransactionRecord) **float64 { return &r.BuildingArea }),
	floatField("main_area", func(r *models.TransactionRecord) **float64 { return &r.MainArea }),
	floatField("attached_area", func(r *models.TransactionRecord) **float64 { return &r.AttachedArea }),
	floatField("balcony_area", func(r *models.TransactionRecord) **float64 { return &r.BalconyArea }),
	floatField("unit_price", func(r *models.TransactionRecord) **float64 { return &r.UnitPrice }),
	int64Field("total_price", func(r *models.TransactionRecord) **int64 { return &r.TotalPrice }),
	strField("transaction_type", func(r *models.TransactionRecord) *string { return &r.TransactionType }),
	strField("floor_level", func(r *models.TransactionRecord) *string { return &r.FloorLevel }),
	strField("total_floors", func(r *models.TransactionRecord) *string { return &r.TotalFloors }),
	strField("parking_type", func(r *models.TransactionRecord) *string { return &r.ParkingType }),
	floatField("parking_area", func(r *models.TransactionRecord) **float64 { return &r.ParkingArea }),
	int64Field("parking_price", func(r *models.TransactionRecord) **int64 { return &r.ParkingPrice }),
	strField("note", func(r *models.TransactionRecord) *string { return &r.Note }),
}
