package resolver

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/land-resolver/app/models"
	"github.com/land-resolver/internal/normalizer"
	"github.com/land-resolver/internal/parser"
	"github.com/land-resolver/internal/store"
)

func newTestResolver(t *testing.T) (*Resolver, *store.Store) {
	t.Helper()
	logger := zap.NewNop()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	norm := normalizer.NewNormalizer()
	p := parser.NewParser(norm)
	d := parser.NewDisambiguator(st, logger)
	return New(st, p, norm, d, logger), st
}

func seedRecord(t *testing.T, st *store.Store, p *parser.Parser, address, date, community string) {
	t.Helper()
	parsed, err := p.Parse(address, "")
	if err != nil {
		t.Fatalf("parse fixture %q: %v", address, err)
	}
	norm := normalizer.NewNormalizer()
	rec := &models.TransactionRecord{
		Address:         norm.Normalize(address),
		TransactionDate: date,
		CountyCity:      parsed.CountyCity,
		District:        parsed.District,
		Village:         parsed.Village,
		Street:          parsed.Street,
		Lane:            parsed.Lane,
		Alley:           parsed.Alley,
		Number:          parsed.Number,
		Floor:           parsed.Floor,
		SubNumber:       parsed.SubNumber,
		CommunityName:   community,
	}
	if _, err := st.InsertRecords(context.Background(), []*models.TransactionRecord{rec}); err != nil {
		t.Fatalf("insert fixture: %v", err)
	}
}

func TestResolveExactTier(t *testing.T) {
	r, st := newTestResolver(t)
	p := parser.NewParser(normalizer.NewNormalizer())

	seedRecord(t, st, p, "台北市松山區三民路29巷5號3樓", "1120105", "松山雅築")
	seedRecord(t, st, p, "台北市松山區三民路100號2樓", "1120210", "")

	got, err := r.Resolve(context.Background(), "台北市松山區三民路29巷5號3樓", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 hit, got %d", len(got))
	}
	if got[0].Confidence != ConfidenceExact {
		t.Errorf("confidence = %d, want %d", got[0].Confidence, ConfidenceExact)
	}
	if got[0].MatchLevel != "精確地址" {
		t.Errorf("match level = %q", got[0].MatchLevel)
	}
	if got[0].Record.CommunityName != "松山雅築" {
		t.Errorf("wrong record: %+v", got[0].Record)
	}
}

func TestResolveDoorTierBeatsStreetTier(t *testing.T) {
	r, st := newTestResolver(t)
	p := parser.NewParser(normalizer.NewNormalizer())

	// Door 5 exists; the query omits the district so tier 1 is skipped
	// and tier 2 (street+number) must answer before street-only.
	seedRecord(t, st, p, "台北市松山區三民路29巷5號3樓", "1120105", "")
	seedRecord(t, st, p, "台北市松山區三民路77號1樓", "1120301", "")

	got, err := r.Resolve(context.Background(), "三民路29巷5號", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 hit, got %d: %+v", len(got), got)
	}
	if got[0].Confidence != ConfidenceDoor {
		t.Errorf("confidence = %d, want door tier %d", got[0].Confidence, ConfidenceDoor)
	}
	if got[0].Record.Number != "5" {
		t.Errorf("wrong door: %+v", got[0].Record)
	}
}

func TestResolveStreetTierOrdering(t *testing.T) {
	r, st := newTestResolver(t)
	p := parser.NewParser(normalizer.NewNormalizer())

	// Address A has two transactions, B has one. Street-only search must
	// rank A's rows first.
	seedRecord(t, st, p, "台北市松山區三民路10號", "1100101", "")
	seedRecord(t, st, p, "台北市松山區三民路10號", "1120601", "")
	seedRecord(t, st, p, "台北市松山區三民路20號", "1130301", "")

	got, err := r.Resolve(context.Background(), "松山區三民路", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 hits, got %d", len(got))
	}
	if got[0].Confidence != ConfidenceStreet {
		t.Errorf("confidence = %d, want street tier", got[0].Confidence)
	}
	if got[0].Record.Number != "10" || got[1].Record.Number != "10" {
		t.Errorf("most-transacted address should lead: %v %v",
			got[0].Record.Number, got[1].Record.Number)
	}
	// Within the same address, newest first.
	if got[0].Record.TransactionDate != "1120601" {
		t.Errorf("newest first within address, got %s", got[0].Record.TransactionDate)
	}
}

func TestResolveChineseNumeralQuery(t *testing.T) {
	r, st := newTestResolver(t)
	p := parser.NewParser(normalizer.NewNormalizer())

	seedRecord(t, st, p, "台北市中山區中山北路二段36號5樓", "1120105", "")

	got, err := r.Resolve(context.Background(), "中山北路二段三十六號五樓", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("no hits for Chinese numeral query")
	}
	if got[0].Record.Number != "36" {
		t.Errorf("wrong record: %+v", got[0].Record)
	}
}

func TestResolveCommunity(t *testing.T) {
	r, st := newTestResolver(t)
	p := parser.NewParser(normalizer.NewNormalizer())

	seedRecord(t, st, p, "台北市松山區三民路29巷5號3樓", "1120105", "松山雅築")
	seedRecord(t, st, p, "台北市松山區三民路29巷5號5樓", "1120208", "松山雅築")
	seedRecord(t, st, p, "台北市松山區三民路29巷9號2樓", "1120310", "民生新村")

	t.Run("exact door", func(t *testing.T) {
		got, err := r.ResolveCommunity(context.Background(), "松山區三民路29巷5號", 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) == 0 || got[0].Community != "松山雅築" {
			t.Fatalf("want 松山雅築 first, got %+v", got)
		}
		if got[0].Confidence != 98 || got[0].MatchLevel != "精確索引匹配" {
			t.Errorf("level = %d %q", got[0].Confidence, got[0].MatchLevel)
		}
	})

	t.Run("neighboring door", func(t *testing.T) {
		got, err := r.ResolveCommunity(context.Background(), "松山區三民路29巷7號", 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) == 0 {
			t.Fatal("no candidates")
		}
		if got[0].Confidence != 90 || got[0].MatchLevel != "相鄰門牌匹配" {
			t.Errorf("level = %d %q, want nearby-door tier", got[0].Confidence, got[0].MatchLevel)
		}
		// 5號 carries two transactions to 9號's one.
		if got[0].Community != "松山雅築" {
			t.Errorf("want 松山雅築 first, got %+v", got)
		}
	})

	t.Run("lane scope", func(t *testing.T) {
		got, err := r.ResolveCommunity(context.Background(), "松山區三民路29巷", 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) == 0 {
			t.Fatal("no candidates")
		}
		if got[0].Confidence != 72 || got[0].MatchLevel != "巷弄索引匹配" {
			t.Errorf("level = %d %q, want lane tier", got[0].Confidence, got[0].MatchLevel)
		}
	})
}

func TestAddressVariants(t *testing.T) {
	variants := AddressVariants("三民路29巷5號")

	want := map[string]bool{
		"三民路29巷5號":   false,
		"三民路二十九巷五號": false,
		"三民路廿九巷五號":  false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for v, seen := range want {
		if !seen {
			t.Errorf("missing variant %q in %v", v, variants)
		}
	}
	if len(variants) > MaxVariants {
		t.Errorf("variant count %d exceeds cap %d", len(variants), MaxVariants)
	}
}

func TestNumberVariants(t *testing.T) {
	vs := NumberVariants("23")
	want := map[string]bool{"23": false, "２３": false, "二十三": false, "二三": false, "廿三": false}
	for _, v := range vs {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for v, seen := range want {
		if !seen {
			t.Errorf("NumberVariants(23) missing %q, got %v", v, vs)
		}
	}
}
