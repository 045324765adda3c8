package resolver

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/land-resolver/app/models"
	"github.com/land-resolver/internal/normalizer"
	"github.com/land-resolver/internal/parser"
	"github.com/land-resolver/internal/store"
)

// Confidence per match tier. Structured hits keep the original grading;
// text fallbacks sit below every structured tier.
const (
	ConfidenceExact  = 98
	ConfidenceDoor   = 90
	ConfidenceLane   = 72
	ConfidenceStreet = 40
	ConfidenceFTS    = 30
	ConfidenceLike   = 20
)

// Options tune a single Resolve call.
type Options struct {
	// Limit caps returned rows per tier (default 200).
	Limit int
	// Exhaustive keeps descending through tiers even after a hit,
	// concatenating results instead of stopping at the first non-empty
	// tier.
	Exhaustive bool
}

// Resolver runs the tiered address search: structured index levels first,
// FTS next, LIKE variants last.
type Resolver struct {
	store  *store.Store
	parser *parser.Parser
	norm   *normalizer.Normalizer
	disamb *parser.Disambiguator
	logger *zap.Logger
}

// New builds a Resolver over the given store.
func New(st *store.Store, p *parser.Parser, norm *normalizer.Normalizer, d *parser.Disambiguator, logger *zap.Logger) *Resolver {
	return &Resolver{store: st, parser: p, norm: norm, disamb: d, logger: logger}
}

type tier struct {
	pred       sq.Sqlizer
	confidence int
	level      string
}

// Resolve searches for a free-form address query.
func (r *Resolver) Resolve(ctx context.Context, query string, opts Options) ([]models.ResolveCandidate, error) {
	if opts.Limit <= 0 {
		opts.Limit = 200
	}

	parsed := r.parser.ParseQuery(query)
	if parsed.CountyCity == "" && parsed.District != "" {
		parsed.CountyCity = r.disamb.ResolveCity(ctx, parsed.District, "", "")
	}

	var out []models.ResolveCandidate

	if parsed.Street != "" {
		for _, t := range r.structuredTiers(parsed) {
			cands, err := r.store.SelectCandidates(ctx, t.pred, opts.Limit)
			if err != nil {
				return nil, fmt.Errorf("tier %s: %w", t.level, err)
			}
			if len(cands) == 0 {
				continue
			}
			out = append(out, toResults(cands, t.confidence, t.level)...)
			if !opts.Exhaustive {
				r.logger.Debug("resolved structured",
					zap.String("query", query),
					zap.String("level", t.level),
					zap.Int("hits", len(cands)))
				return out, nil
			}
		}
	}

	if len(out) == 0 || opts.Exhaustive {
		normalized := r.norm.NormalizeQuery(query)
		cands, err := r.store.SelectCandidatesFTS(ctx, normalized, opts.Limit)
		if err != nil {
			return nil, fmt.Errorf("fts tier: %w", err)
		}
		if len(cands) > 0 {
			out = append(out, toResults(cands, ConfidenceFTS, "FTS5 全文")...)
			if !opts.Exhaustive {
				return out, nil
			}
		}
	}

	if len(out) == 0 || opts.Exhaustive {
		variants := AddressVariants(query)
		if len(variants) > maxLikeTerms {
			variants = variants[:maxLikeTerms]
		}
		cands, err := r.store.SelectCandidatesLike(ctx, variants, opts.Limit)
		if err != nil {
			return nil, fmt.Errorf("like tier: %w", err)
		}
		out = append(out, toResults(cands, ConfidenceLike, "LIKE 變體")...)
	}

	return out, nil
}

// structuredTiers builds the indexed query levels, most precise first.
func (r *Resolver) structuredTiers(p models.ParsedAddress) []tier {
	var tiers []tier

	laneEq := func(conj sq.And) sq.And {
		if p.Lane != "" {
			return append(conj, sq.Eq{"lane": p.Lane})
		}
		return append(conj, sq.Eq{"lane": ""})
	}
	alleyEq := func(conj sq.And) sq.And {
		if p.Alley != "" {
			return append(conj, sq.Eq{"alley": p.Alley})
		}
		return append(conj, sq.Eq{"alley": ""})
	}

	// Tier 1: district + street + lane + alley + number (+floor/sub when given).
	if p.District != "" && p.Number != "" {
		conj := sq.And{sq.Eq{"district": p.District}, sq.Eq{"street": p.Street}, sq.Eq{"number": p.Number}}
		conj = laneEq(conj)
		conj = alleyEq(conj)
		if p.CountyCity != "" {
			conj = append(conj, sq.Eq{"county_city": p.CountyCity})
		}
		if p.Floor != "" {
			conj = append(conj, sq.Eq{"floor": p.Floor})
		}
		if p.SubNumber != "" {
			conj = append(conj, sq.Eq{"sub_number": p.SubNumber})
		}
		tiers = append(tiers, tier{conj, ConfidenceExact, "精確地址"})
	}

	// Tier 2: street + number across districts.
	if p.Number != "" {
		conj := sq.And{sq.Eq{"street": p.Street}, sq.Eq{"number": p.Number}}
		conj = laneEq(conj)
		conj = alleyEq(conj)
		tiers = append(tiers, tier{conj, ConfidenceDoor, "門牌比對"})
	}

	// Tier 3: lane scope.
	if p.Lane != "" {
		if p.District != "" {
			conj := sq.And{sq.Eq{"district": p.District}, sq.Eq{"street": p.Street}, sq.Eq{"lane": p.Lane}}
			if p.Alley != "" {
				conj = append(conj, sq.Eq{"alley": p.Alley})
			}
			tiers = append(tiers, tier{conj, ConfidenceLane, "巷弄搜尋"})
		}
		tiers = append(tiers, tier{
			sq.And{sq.Eq{"street": p.Street}, sq.Eq{"lane": p.Lane}},
			ConfidenceLane, "巷弄搜尋",
		})
	}

	// Tier 4: street only.
	if p.District != "" {
		tiers = append(tiers, tier{
			sq.And{sq.Eq{"district": p.District}, sq.Eq{"street": p.Street}},
			ConfidenceStreet, "路段搜尋",
		})
	}
	tiers = append(tiers, tier{sq.Eq{"street": p.Street}, ConfidenceStreet, "路段搜尋"})

	return tiers
}

func toResults(cands []store.Candidate, confidence int, level string) []models.ResolveCandidate {
	out := make([]models.ResolveCandidate, 0, len(cands))
	for _, c := range cands {
		out = append(out, models.ResolveCandidate{
			Record:     c.Record,
			Confidence: confidence,
			MatchLevel: level,
			AddrCount:  c.AddrCount,
		})
	}
	return out
}
