package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/land-resolver/app/models"
	"github.com/land-resolver/internal/normalizer"
)

// ErrLotNumber marks cadastral-lot inputs (地號). Those describe land
// parcels, not street doors, and never enter the address table.
var ErrLotNumber = errors.New("cadastral lot number, not a street address")

// Parser runs the structured extraction cascade over normalized addresses.
// Rules fire once each, in order, consuming the matched prefix.
type Parser struct {
	norm *normalizer.Normalizer

	city         *regexp.Regexp
	district     *regexp.Regexp
	districtQ    *regexp.Regexp
	village      *regexp.Regexp
	villageRoad  *regexp.Regexp
	villageRoadQ *regexp.Regexp
	neighborhood *regexp.Regexp
	street       *regexp.Regexp
	streetBare   *regexp.Regexp
	lane         *regexp.Regexp
	alley        *regexp.Regexp
	number       *regexp.Regexp
	subNumber    *regexp.Regexp
	floor        *regexp.Regexp
	floorQ       *regexp.Regexp
	door         *regexp.Regexp
}

// NewParser builds a Parser sharing the given normalizer.
func NewParser(norm *normalizer.Normalizer) *Parser {
	return &Parser{
		norm: norm,
		city: regexp.MustCompile(`^(台北市|新北市|桃園(?:市|縣)|台中(?:市|縣)|台南(?:市|縣)|` +
			`高雄(?:市|縣)|基隆市|新竹(?:市|縣)|嘉義(?:市|縣)|` +
			`苗栗縣|彰化縣|南投縣|雲林縣|屏東縣|` +
			`台東縣|花蓮縣|宜蘭縣|澎湖縣|金門縣|連江縣|台北縣)`),
		district:  regexp.MustCompile(`^(.{1,4}?(?:區|鄉|鎮|市))`),
		districtQ: regexp.MustCompile(`^(.{1,4}?(?:區|鄉|鎮|市)).`),
		village:   regexp.MustCompile(`^(.{1,5}?里)`),
		// Validates the text after a 里 candidate: a road keyword must
		// follow before any digit, or a numbered 鄰 comes next.
		villageRoad:  regexp.MustCompile(`^(?:[^\d]*(?:路|街|大道)|[^\d]*\d+鄰)`),
		villageRoadQ: regexp.MustCompile(`^[^\d]*(?:路|街|大道|\d)`),
		neighborhood: regexp.MustCompile(`^(\d+)鄰`),
		street:       regexp.MustCompile(`^(.+?(?:路|街|大道))([一二三四五六七八九十\d]+段)?`),
		streetBare:   regexp.MustCompile(`^([^\d]+)`),
		lane:         regexp.MustCompile(`^(\d+)巷`),
		alley:        regexp.MustCompile(`^(\d+)弄`),
		number:       regexp.MustCompile(`^(\d+)(?:之(\d+))?號`),
		subNumber:    regexp.MustCompile(`^之(\d+)`),
		floor:        regexp.MustCompile(`^[,，]?\s*(\d+)(?:樓|層)`),
		floorQ:       regexp.MustCompile(`^[,，]?\s*(\d+)(?:樓|層|[Ff])`),
		door:         regexp.MustCompile(`\d+號`),
	}
}

// Parse extracts the structured parts of a stored address. districtHint is
// the CSV's standalone district column, used when the address itself does
// not start with one. Cadastral lots return ErrLotNumber.
func (p *Parser) Parse(raw, districtHint string) (models.ParsedAddress, error) {
	var result models.ParsedAddress
	if raw == "" {
		return result, nil
	}
	if strings.Contains(raw, "地號") {
		return result, ErrLotNumber
	}

	addr := p.norm.Normalize(strings.TrimSpace(raw))

	// 縣市
	if m := p.city.FindStringSubmatch(addr); m != nil {
		result.CountyCity = ResolveOldCityName(m[1])
		addr = addr[len(m[0]):]
		// A doubled prefix ("台北市台北市...") shows up in sloppy sources.
		if m2 := p.city.FindStringSubmatch(addr); m2 != nil {
			addr = addr[len(m2[0]):]
		}
	}

	// 鄉鎮市區
	if m := p.district.FindStringSubmatch(addr); m != nil {
		result.District = m[1]
		addr = addr[len(m[0]):]
	}
	if result.District == "" && districtHint != "" {
		result.District = p.norm.Normalize(strings.TrimSpace(districtHint))
	}
	if result.CountyCity == "" && result.District != "" {
		result.CountyCity = CityForDistrict(result.District)
	}

	// 里 — only when a road keyword (or numbered 鄰) follows, otherwise
	// streets like 三多里路 would be chopped.
	if m := p.village.FindStringSubmatch(addr); m != nil {
		rest := addr[len(m[0]):]
		if p.villageRoad.MatchString(rest) {
			result.Village = m[1]
			addr = rest
		}
	}

	// 鄰 — captured, then dropped from the storage form.
	if m := p.neighborhood.FindStringSubmatch(addr); m != nil {
		result.Neighborhood = m[1]
		addr = addr[len(m[0]):]
	}

	p.parseStreetAndDoor(addr, &result, false)
	return result, nil
}

// ParseQuery extracts search fields from user input. Differences from
// Parse: query normalization (F/f floors), villages are skipped rather
// than kept, and no district→city inference happens here; that is the
// disambiguator's job.
func (p *Parser) ParseQuery(query string) models.ParsedAddress {
	var result models.ParsedAddress
	addr := p.norm.NormalizeQuery(query)
	if addr == "" {
		return result
	}

	if m := p.city.FindStringSubmatch(addr); m != nil {
		result.CountyCity = ResolveOldCityName(m[1])
		addr = addr[len(m[0]):]
	}

	if m := p.districtQ.FindStringSubmatch(addr); m != nil {
		result.District = m[1]
		addr = addr[len(m[1]):]
	}

	if m := p.village.FindStringSubmatch(addr); m != nil {
		rest := addr[len(m[0]):]
		if p.villageRoadQ.MatchString(rest) {
			addr = rest
		}
	}
	if m := p.neighborhood.FindStringSubmatch(addr); m != nil {
		addr = addr[len(m[0]):]
	}

	p.parseStreetAndDoor(addr, &result, true)
	return result
}

// parseStreetAndDoor consumes street, lane, alley, door number, floor and
// the 之N sub-numbers. Shared tail of Parse and ParseQuery.
func (p *Parser) parseStreetAndDoor(addr string, result *models.ParsedAddress, forQuery bool) string {
	if m := p.street.FindStringSubmatch(addr); m != nil {
		result.Street = m[1] + m[2]
		addr = addr[len(m[0]):]
	} else if !forQuery {
		// No road keyword: take the leading non-digit run as the street
		// (rural addresses like 中正東村12號).
		if m := p.streetBare.FindStringSubmatch(addr); m != nil && len(m[1]) < len(addr) {
			result.Street = m[1]
			addr = addr[len(m[0]):]
		}
	}

	if m := p.lane.FindStringSubmatch(addr); m != nil {
		result.Lane = m[1]
		addr = addr[len(m[0]):]
	}
	if m := p.alley.FindStringSubmatch(addr); m != nil {
		result.Alley = m[1]
		addr = addr[len(m[0]):]
	}

	// X之Y號 → door X sub Y; X號 → door X.
	if m := p.number.FindStringSubmatch(addr); m != nil {
		result.Number = m[1]
		if m[2] != "" {
			result.SubNumber = m[2]
		}
		addr = addr[len(m[0]):]
	}

	// 號之Y form (486號之5 2樓).
	if m := p.subNumber.FindStringSubmatch(addr); m != nil {
		if result.SubNumber == "" {
			result.SubNumber = m[1]
		}
		addr = addr[len(m[0]):]
	}

	floorPat := p.floor
	if forQuery {
		floorPat = p.floorQ
	}
	if m := floorPat.FindStringSubmatch(addr); m != nil {
		result.Floor = m[1]
		addr = addr[len(m[0]):]
	}

	// 之N after the floor is floor-scoped (12樓之8).
	if result.Floor != "" {
		if m := p.subNumber.FindStringSubmatch(addr); m != nil {
			result.FloorSubNumber = m[1]
			addr = addr[len(m[0]):]
		}
	}
	return addr
}
