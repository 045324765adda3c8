package store

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestMigrateCreatesIndexes(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	rows, err := st.db.QueryContext(context.Background(),
		`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'land_transaction'`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	got := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatal(err)
		}
		got[name] = true
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"idx_lt_county_city", "idx_lt_district", "idx_lt_street",
		"idx_lt_lane", "idx_lt_number", "idx_lt_floor",
		"idx_lt_date", "idx_lt_price", "idx_lt_dedup", "idx_lt_full",
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("index %s missing", name)
		}
	}
}
