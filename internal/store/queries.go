package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/land-resolver/app/models"
)

// Candidate is a record plus how many rows share its address, used for
// intra-tier ordering.
type Candidate struct {
	Record    models.TransactionRecord
	AddrCount int
}

// SelectCandidates runs a structured predicate over land_transaction,
// ordered by per-address transaction count then recency.
func (s *Store) SelectCandidates(ctx context.Context, pred sq.Sqlizer, limit int) ([]Candidate, error) {
	where, args, err := pred.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidate predicate: %w", err)
	}
	query := fmt.Sprintf(`
		WITH base AS (
			%s WHERE (%s) AND address != ''
		)
		SELECT *, COUNT(*) OVER (PARTITION BY address) AS addr_count
		FROM base
		ORDER BY addr_count DESC, transaction_date DESC
		LIMIT %d`, selectRecordSQL, where, limit)
	return s.queryCandidates(ctx, query, args...)
}

// SelectCandidatesFTS matches the query against the FTS index.
func (s *Store) SelectCandidatesFTS(ctx context.Context, match string, limit int) ([]Candidate, error) {
	query := fmt.Sprintf(`
		WITH base AS (
			%s WHERE id IN (SELECT rowid FROM address_fts WHERE address MATCH ?)
			  AND address != ''
		)
		SELECT *, COUNT(*) OVER (PARTITION BY address) AS addr_count
		FROM base
		ORDER BY addr_count DESC, transaction_date DESC
		LIMIT %d`, selectRecordSQL, limit)
	// Quote so FTS treats the input as a phrase, not query syntax.
	return s.queryCandidates(ctx, query, `"`+match+`"`)
}

// SelectCandidatesLike falls back to substring matching over the given
// address variants.
func (s *Store) SelectCandidatesLike(ctx context.Context, variants []string, limit int) ([]Candidate, error) {
	if len(variants) == 0 {
		return nil, nil
	}
	or := make(sq.Or, 0, len(variants))
	for _, v := range variants {
		or = append(or, sq.Like{"address": "%" + v + "%"})
	}
	return s.SelectCandidates(ctx, or, limit)
}

func (s *Store) queryCandidates(ctx context.Context, query string, args ...any) ([]Candidate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("candidate query: %w", err)
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		rec, count, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, Candidate{Record: *rec, AddrCount: count})
	}
	return out, rows.Err()
}

// CommunityGroup is an aggregated community hit for address→community
// resolution.
type CommunityGroup struct {
	Name     string
	Count    int
	District string
}

// GroupCommunities aggregates community names under a structured
// predicate, most-transacted first.
func (s *Store) GroupCommunities(ctx context.Context, pred sq.Sqlizer, limit int) ([]CommunityGroup, error) {
	where, args, err := pred.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build community predicate: %w", err)
	}
	query := fmt.Sprintf(`
		SELECT community_name, COUNT(*) AS cnt, MAX(district)
		FROM land_transaction
		WHERE (%s) AND community_name != ''
		GROUP BY community_name
		ORDER BY cnt DESC
		LIMIT %d`, where, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("community group query: %w", err)
	}
	defer rows.Close()

	var out []CommunityGroup
	for rows.Next() {
		var g CommunityGroup
		if err := rows.Scan(&g.Name, &g.Count, &g.District); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// CommunitySummary backs the in-memory fuzzy matcher cache.
type CommunitySummary struct {
	Name         string
	TxCount      int
	AvgPrice     float64
	AvgUnitPrice float64
	District     string
}

// CommunitySummaries aggregates every named community.
func (s *Store) CommunitySummaries(ctx context.Context) ([]CommunitySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT community_name,
		       COUNT(*),
		       COALESCE(AVG(total_price), 0),
		       COALESCE(AVG(unit_price), 0),
		       MAX(district)
		FROM land_transaction
		WHERE community_name != ''
		GROUP BY community_name`)
	if err != nil {
		return nil, fmt.Errorf("community summaries: %w", err)
	}
	defer rows.Close()

	var out []CommunitySummary
	for rows.Next() {
		var c CommunitySummary
		if err := rows.Scan(&c.Name, &c.TxCount, &c.AvgPrice, &c.AvgUnitPrice, &c.District); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCandidate(row rowScanner) (*models.TransactionRecord, int, error) {
	var count int
	rec, err := scanRecord(row, &count)
	return rec, count, err
}
