package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store wraps the land_transaction SQLite database. WAL keeps readers
// unblocked while an ingestion batch writes; maintenance (Analyze, Vacuum,
// RebuildFTS) is meant for offline windows.
type Store struct {
	db      *sql.DB
	logger  *zap.Logger
	builder sq.StatementBuilderType
}

// Open opens (or creates) the database and applies the session pragmas.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA page_size = 4096",
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	s := &Store{
		db:      db,
		logger:  logger,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		createTableSQL,
		createFTSSQL,
	}
	stmts = append(stmts, createIndexSQL...)
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RebuildFTS repopulates the external-content FTS index from the base
// table. Run after bulk ingestion.
func (s *Store) RebuildFTS(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO address_fts(address_fts) VALUES('rebuild')`)
	if err != nil {
		return fmt.Errorf("rebuild fts: %w", err)
	}
	s.logger.Info("fts index rebuilt")
	return nil
}

// Analyze refreshes the query-planner statistics.
func (s *Store) Analyze(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return nil
}

// Vacuum compacts the database file. Offline only.
func (s *Store) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

// Stats holds the figures shown by the admin endpoint and CLI.
type Stats struct {
	TotalRecords      int64 `json:"total_records"`
	UniqueAddresses   int64 `json:"unique_addresses"`
	UniqueCommunities int64 `json:"unique_communities"`
	Geocoded          int64 `json:"geocoded"`
}

// GetStats counts records, distinct addresses and communities.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT address),
		       COUNT(DISTINCT CASE WHEN community_name != '' THEN community_name END),
		       SUM(CASE WHEN lat IS NOT NULL AND lat != 0 THEN 1 ELSE 0 END)
		FROM land_transaction`)
	var geocoded sql.NullInt64
	if err := row.Scan(&st.TotalRecords, &st.UniqueAddresses, &st.UniqueCommunities, &geocoded); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	st.Geocoded = geocoded.Int64
	return &st, nil
}

// DistrictVolume returns per-city transaction counts for a district. The
// disambiguator uses it as the volume signal.
func (s *Store) DistrictVolume(ctx context.Context, district string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT county_city, COUNT(*)
		FROM land_transaction
		WHERE district = ?
		GROUP BY county_city`, district)
	if err != nil {
		return nil, fmt.Errorf("district volume %s: %w", district, err)
	}
	defer rows.Close()

	volumes := make(map[string]int)
	for rows.Next() {
		var city string
		var count int
		if err := rows.Scan(&city, &count); err != nil {
			return nil, err
		}
		volumes[city] = count
	}
	return volumes, rows.Err()
}
