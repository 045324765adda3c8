package resolver

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/land-resolver/app/models"
)

// nearbyDoorRange widens the door number by ±10 when the exact door has no
// named community; buildings span several doors.
const nearbyDoorRange = 10

// ResolveCommunity finds the community/building name for an address.
// Levels mirror Resolve but aggregate by community, widening until a
// confident enough answer appears.
func (r *Resolver) ResolveCommunity(ctx context.Context, address string, topN int) ([]models.CommunityCandidate, error) {
	if topN <= 0 {
		topN = 5
	}

	parsed := r.parser.ParseQuery(address)
	if parsed.CountyCity == "" && parsed.District != "" {
		parsed.CountyCity = r.disamb.ResolveCity(ctx, parsed.District, "", "")
	}

	var results []models.CommunityCandidate
	addGroups := func(groups []groupHit, confidence int, level string) {
		for _, g := range groups {
			district := g.District
			if district == "" {
				district = parsed.District
			}
			results = append(results, models.CommunityCandidate{
				Community:  g.Name,
				Confidence: confidence,
				MatchLevel: level,
				District:   district,
				Count:      g.Count,
			})
		}
	}

	scope := func(conj sq.And) sq.And {
		if parsed.District != "" {
			return append(conj, sq.Eq{"district": parsed.District})
		}
		if parsed.CountyCity != "" {
			return append(conj, sq.Eq{"county_city": parsed.CountyCity})
		}
		return conj
	}

	// Level 1: exact door.
	if parsed.Street != "" && parsed.Number != "" {
		conj := sq.And{sq.Eq{"street": parsed.Street}, sq.Eq{"number": parsed.Number}}
		if parsed.Lane != "" {
			conj = append(conj, sq.Eq{"lane": parsed.Lane})
		}
		groups, err := r.groupHits(ctx, scope(conj), 5)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 && parsed.Lane != "" {
			// Retry without the lane; sources disagree on lane spelling.
			conj = sq.And{sq.Eq{"street": parsed.Street}, sq.Eq{"number": parsed.Number}}
			if groups, err = r.groupHits(ctx, scope(conj), 5); err != nil {
				return nil, err
			}
		}
		addGroups(groups, 98, "精確索引匹配")
	}

	// Level 2: neighboring doors.
	if (len(results) == 0 || results[0].Confidence < 80) && parsed.Street != "" && parsed.Number != "" {
		if target, err := strconv.Atoi(parsed.Number); err == nil {
			conj := sq.And{
				sq.Eq{"street": parsed.Street},
				sq.Expr("CAST(number AS INTEGER) BETWEEN ? AND ?", target-nearbyDoorRange, target+nearbyDoorRange),
			}
			if parsed.Lane != "" {
				conj = append(conj, sq.Eq{"lane": parsed.Lane})
			}
			groups, err := r.groupHits(ctx, scope(conj), 5)
			if err != nil {
				return nil, err
			}
			addGroups(groups, 90, "相鄰門牌匹配")
		}
	}

	// Level 3: same lane.
	if allBelow(results, 70) && parsed.Street != "" && parsed.Lane != "" {
		conj := sq.And{sq.Eq{"street": parsed.Street}, sq.Eq{"lane": parsed.Lane}}
		groups, err := r.groupHits(ctx, scope(conj), 5)
		if err != nil {
			return nil, err
		}
		addGroups(groups, 72, "巷弄索引匹配")
	}

	// Level 4: same road.
	if allBelow(results, 50) && parsed.Street != "" {
		groups, err := r.groupHits(ctx, scope(sq.And{sq.Eq{"street": parsed.Street}}), 10)
		if err != nil {
			return nil, err
		}
		addGroups(groups, 40, "路段索引匹配")
	}

	// LIKE fallback for inputs the parser could not split.
	if len(results) == 0 {
		normalized := r.norm.NormalizeQuery(address)
		if normalized != "" {
			groups, err := r.groupHits(ctx, sq.Like{"address": "%" + normalized + "%"}, 5)
			if err != nil {
				return nil, err
			}
			addGroups(groups, 65, "地址模糊匹配")
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return results[i].Count > results[j].Count
	})
	if len(results) > topN {
		results = results[:topN]
	}

	r.logger.Debug("community resolved",
		zap.String("address", address),
		zap.Int("hits", len(results)))
	return results, nil
}

type groupHit struct {
	Name     string
	Count    int
	District string
}

func (r *Resolver) groupHits(ctx context.Context, pred sq.Sqlizer, limit int) ([]groupHit, error) {
	groups, err := r.store.GroupCommunities(ctx, pred, limit)
	if err != nil {
		return nil, fmt.Errorf("community lookup: %w", err)
	}
	out := make([]groupHit, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupHit{Name: g.Name, Count: g.Count, District: g.District})
	}
	return out, nil
}

func allBelow(results []models.CommunityCandidate, threshold int) bool {
	for _, r := range results {
		if r.Confidence >= threshold {
			return false
		}
	}
	return true
}
