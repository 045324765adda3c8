package requests

// ResolveAddressRequest is the body of POST /v1/addresses/resolve.
type ResolveAddressRequest struct {
	Address    string `json:"address" binding:"required"`
	Limit      int    `json:"limit"`
	Exhaustive bool   `json:"exhaustive"`
}

// CommunityResolveRequest is the body of POST /v1/communities/resolve:
// given a street address, find the building projects registered at or
// around it.
type CommunityResolveRequest struct {
	Address string `json:"address" binding:"required"`
	TopN    int    `json:"top_n"`
}

// GeocodeRequest is the body of POST /v1/addresses/geocode.
type GeocodeRequest struct {
	Address  string `json:"address" binding:"required"`
	District string `json:"district"`
}

// IngestRequest is the body of POST /v1/ingest. Source selects the
// adapter for the file at Path; CityCode is the MOI letter carried by
// government CSV files.
type IngestRequest struct {
	Path     string `json:"path" binding:"required"`
	Source   string `json:"source" binding:"required,oneof=csv api"`
	Mode     string `json:"mode" binding:"omitempty,oneof=rebuild incremental"`
	CityCode string `json:"city_code"`
}
