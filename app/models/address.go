package models

// ParsedAddress holds the structured parts of a Taiwanese street address in
// storage form: digits for lane/alley/number/floor, Chinese numeral for the
// road section (段) kept inside Street.
type ParsedAddress struct {
	CountyCity   string `json:"county_city"`
	District     string `json:"district"`
	Village      string `json:"village"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
	Lane         string `json:"lane"`
	Alley        string `json:"alley"`
	Number       string `json:"number"`

	// SubNumber is the door-scoped 之N (53之2號 → "2").
	SubNumber string `json:"sub_number"`

	Floor string `json:"floor"`

	// FloorSubNumber is the floor-scoped 之N (12樓之8 → "8"). The door
	// SubNumber stays empty in that case.
	FloorSubNumber string `json:"floor_sub_number"`
}

// IsEmpty reports whether nothing at all was extracted.
func (p *ParsedAddress) IsEmpty() bool {
	return p.CountyCity == "" && p.District == "" && p.Street == "" &&
		p.Lane == "" && p.Alley == "" && p.Number == "" && p.Floor == ""
}

// FloorLabel renders the floor for display, e.g. "3" → "3F".
func (p *ParsedAddress) FloorLabel() string {
	if p.Floor == "" {
		return ""
	}
	if p.FloorSubNumber != "" {
		return p.Floor + "F-" + p.FloorSubNumber
	}
	return p.Floor + "F"
}

// ResolveCandidate is one hit from the tiered address resolver.
type ResolveCandidate struct {
	Record     TransactionRecord `json:"record"`
	Confidence int               `json:"confidence"`
	MatchLevel string            `json:"match_level"`
	AddrCount  int               `json:"addr_count"`
}

// CommunityCandidate is one hit from address→community resolution.
type CommunityCandidate struct {
	Community  string `json:"community"`
	Confidence int    `json:"confidence"`
	MatchLevel string `json:"match_level"`
	District   string `json:"district"`
	Count      int    `json:"count"`
}

// CommunityMatch is one hit from keyword community search.
type CommunityMatch struct {
	Name         string  `json:"name"`
	MatchType    string  `json:"match_type"`
	Score        float64 `json:"score"`
	TxCount      int     `json:"tx_count"`
	AvgPrice     float64 `json:"avg_price"`
	AvgUnitPrice float64 `json:"avg_unit_price"`
	District     string  `json:"district"`
}

// GeocodeResult is a resolved coordinate with its precision level.
type GeocodeResult struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Precision string  `json:"precision"` // exact | road | district
}
