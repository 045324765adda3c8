// Package community implements fuzzy search over building-project
// (建案) names aggregated from the transaction table.
package community

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
	"go.uber.org/zap"
	"golang.org/x/text/width"

	"github.com/land-resolver/app/models"
	"github.com/land-resolver/internal/store"
)

// Match type labels, ordered from strongest to weakest.
const (
	MatchExact       = "精確"
	MatchContains    = "包含"
	MatchSubsequence = "子序列"
	MatchFuzzy       = "模糊"
	MatchSimilar     = "相似"
)

// DefaultTopN bounds a search result when the caller passes no limit.
const DefaultTopN = 20

type entry struct {
	norm    string
	summary store.CommunitySummary
}

// Matcher holds an in-memory snapshot of every community name. The
// snapshot is small (tens of thousands of rows) so a linear scan per
// query is fine; Refresh swaps it after ingestion.
type Matcher struct {
	store  *store.Store
	logger *zap.Logger

	mu      sync.RWMutex
	entries []entry
}

func NewMatcher(st *store.Store, logger *zap.Logger) *Matcher {
	return &Matcher{store: st, logger: logger}
}

// Refresh reloads the community snapshot from the store.
func (m *Matcher) Refresh(ctx context.Context) error {
	summaries, err := m.store.CommunitySummaries(ctx)
	if err != nil {
		return fmt.Errorf("load community snapshot: %w", err)
	}
	entries := make([]entry, 0, len(summaries))
	for _, s := range summaries {
		norm := normalizeName(s.Name)
		if norm == "" {
			continue
		}
		entries = append(entries, entry{norm: norm, summary: s})
	}
	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()
	m.logger.Info("community snapshot refreshed", zap.Int("communities", len(entries)))
	return nil
}

// Search scores every community against the keyword and returns the
// strongest topN matches, best first.
func (m *Matcher) Search(keyword string, topN int) []models.CommunityMatch {
	if topN <= 0 {
		topN = DefaultTopN
	}
	kw := normalizeName(keyword)
	if kw == "" {
		return nil
	}

	m.mu.RLock()
	entries := m.entries
	m.mu.RUnlock()

	var results []models.CommunityMatch
	for _, e := range entries {
		score, matchType := scoreEntry(kw, e)
		if score <= 0 {
			continue
		}
		results = append(results, models.CommunityMatch{
			Name:         e.summary.Name,
			MatchType:    matchType,
			Score:        score,
			TxCount:      e.summary.TxCount,
			AvgPrice:     e.summary.AvgPrice,
			AvgUnitPrice: e.summary.AvgUnitPrice,
			District:     e.summary.District,
		})
	}

	sortMatches(kw, results)
	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

// Count reports the snapshot size.
func (m *Matcher) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// scoreEntry runs the tier ladder for one community. Stronger tiers
// short-circuit weaker ones; the score bands do not overlap between
// exact/contains and the lower tiers.
func scoreEntry(kw string, e entry) (float64, string) {
	name := e.norm
	tx := e.summary.TxCount

	if kw == name {
		return 1000 + float64(tx), MatchExact
	}
	if strings.Contains(name, kw) {
		ratio := runeRatio(kw, name)
		return 500 + ratio*200 + float64(minInt(tx, 200))*0.5, MatchContains
	}
	if strings.Contains(kw, name) {
		ratio := runeRatio(name, kw)
		return 400 + ratio*200 + float64(minInt(tx, 200))*0.5, MatchContains
	}
	if runeLen(kw) >= 2 && isSubsequence(kw, name) {
		ratio := runeRatio(kw, name)
		return 200 + ratio*200 + float64(minInt(tx, 50)), MatchSubsequence
	}

	maxAllowed := maxInt(1, runeLen(kw)/3)
	if dist, ok := editDistanceWithin(kw, name, maxAllowed); ok {
		return 100 - float64(dist)*20 + float64(minInt(tx, 30)), MatchFuzzy
	}

	if cr := commonCharsRatio(kw, name); cr >= 0.6 && runeLen(kw) >= 2 {
		return 50 + cr*80 + float64(minInt(tx, 20)), MatchSimilar
	}
	return 0, ""
}

// sortMatches orders by score descending; equal scores break on
// Jaro-Winkler similarity to the keyword so ties are deterministic and
// favor the closer spelling.
func sortMatches(kw string, matches []models.CommunityMatch) {
	jw := make(map[string]float64, len(matches))
	sim := func(name string) float64 {
		if v, ok := jw[name]; ok {
			return v
		}
		v := smetrics.JaroWinkler(kw, normalizeName(name), 0.7, 4)
		jw[name] = v
		return v
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return sim(matches[i].Name) > sim(matches[j].Name)
	})
}

// normalizeName folds fullwidth to halfwidth, uppercases and strips all
// whitespace. Both the cached names and incoming keywords go through it.
func normalizeName(name string) string {
	s := width.Narrow.String(strings.TrimSpace(name))
	s = strings.ToUpper(s)
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '　' {
			return -1
		}
		return r
	}, s)
}

// isSubsequence reports whether every rune of query appears in target
// in order.
func isSubsequence(query, target string) bool {
	q := []rune(query)
	qi := 0
	for _, r := range target {
		if qi < len(q) && r == q[qi] {
			qi++
		}
	}
	return qi == len(q)
}

// editDistanceWithin returns the Levenshtein distance when it is at most
// maxDist. A length-difference pre-check skips hopeless pairs cheaply.
func editDistanceWithin(a, b string, maxDist int) (int, bool) {
	if absInt(runeLen(a)-runeLen(b)) > maxDist {
		return 0, false
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist > maxDist {
		return 0, false
	}
	return dist, true
}

// commonCharsRatio is the shared distinct-rune count over the larger
// distinct-rune count.
func commonCharsRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	sa := runeSet(a)
	sb := runeSet(b)
	common := 0
	for r := range sa {
		if sb[r] {
			common++
		}
	}
	denom := len(sa)
	if len(sb) > denom {
		denom = len(sb)
	}
	return float64(common) / float64(denom)
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}

func runeLen(s string) int { return len([]rune(s)) }

func runeRatio(short, long string) float64 {
	return float64(runeLen(short)) / float64(runeLen(long))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
