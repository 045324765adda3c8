package parser

import (
	"context"

	"go.uber.org/zap"
)

// VolumeStats supplies per-city transaction counts for a district, the
// last-resort disambiguation signal.
type VolumeStats interface {
	DistrictVolume(ctx context.Context, district string) (map[string]int, error)
}

// Disambiguator assigns a county/city to a parsed address. Signals, in
// order: explicit city token, static district table, source city code,
// transaction volume. When none decides, the city stays empty rather than
// guessed.
type Disambiguator struct {
	stats  VolumeStats
	logger *zap.Logger
}

// NewDisambiguator builds a Disambiguator. stats may be nil when no store
// is available (pure parsing contexts); the volume signal is then skipped.
func NewDisambiguator(stats VolumeStats, logger *zap.Logger) *Disambiguator {
	return &Disambiguator{stats: stats, logger: logger}
}

// ResolveCity returns the county/city for the parsed address. cityCode is
// the MOI source hint letter, "" when unknown.
func (d *Disambiguator) ResolveCity(ctx context.Context, district, explicitCity, cityCode string) string {
	if explicitCity != "" {
		return ResolveOldCityName(explicitCity)
	}
	if district == "" {
		return ""
	}

	if city := CityForDistrict(district); city != "" {
		return city
	}

	if cityCode != "" {
		if city := CityForCode(cityCode); city != "" {
			// The code identifies the file's city outright, so an
			// ambiguous district inherits it.
			return city
		}
	}

	if d.stats != nil {
		volumes, err := d.stats.DistrictVolume(ctx, district)
		if err != nil {
			d.logger.Warn("district volume lookup failed",
				zap.String("district", district), zap.Error(err))
			return ""
		}
		best, bestCount, runnerUp := "", 0, 0
		for city, count := range volumes {
			if city == "" {
				continue
			}
			switch {
			case count > bestCount:
				best, runnerUp, bestCount = city, bestCount, count
			case count > runnerUp:
				runnerUp = count
			}
		}
		// A tie means the data itself cannot decide; refuse to pick.
		if best != "" && bestCount > runnerUp {
			d.logger.Debug("district resolved by volume",
				zap.String("district", district),
				zap.String("city", best),
				zap.Int("count", bestCount))
			return best
		}
	}
	return ""
}
