package ingest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/land-resolver/app/models"
	"github.com/land-resolver/internal/normalizer"
	"github.com/land-resolver/internal/parser"
	"github.com/land-resolver/internal/store"
)

func newTestEnricher(t *testing.T) (*Enricher, *store.Store) {
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
	return NewEnricher(st, norm, p, d, 0, logger), st
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }
func iptr(v int) *int        { return &v }

func TestIngestIdempotent(t *testing.T) {
	e, st := newTestEnricher(t)
	ctx := context.Background()

	batch := []models.RawRecord{
		{Address: "台北市松山區三民路29巷5號3樓", TransactionDate: "112/01/05", TotalPrice: i64(12000000)},
		{Address: "台北市松山區三民路29巷7號2樓", TransactionDate: "112/01/06", TotalPrice: i64(9800000)},
	}

	first, err := e.IngestBatch(ctx, batch, ModeIncremental)
	if err != nil {
		t.Fatal(err)
	}
	if first.Inserted != 2 || first.Enriched != 0 {
		t.Fatalf("first pass: %+v", first)
	}

	second, err := e.IngestBatch(ctx, batch, ModeIncremental)
	if err != nil {
		t.Fatal(err)
	}
	if second.Inserted != 0 || second.Enriched != 0 {
		t.Errorf("second pass = %+v, want everything discarded as duplicate", second)
	}
	if second.Discarded != 2 {
		t.Errorf("second pass discarded %d, want 2", second.Discarded)
	}

	stats, err := st.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRecords != 2 {
		t.Errorf("row count after double ingest = %d, want 2", stats.TotalRecords)
	}
}

func TestIngestMergesSpellingVariants(t *testing.T) {
	e, st := newTestEnricher(t)
	ctx := context.Background()

	batch := []models.RawRecord{
		{Address: "台北市松山區三民路二十九巷五號", TransactionDate: "112/01/05", TotalPrice: i64(12000000)},
		{Address: "台北市松山區三民路２９巷５號", TransactionDate: "112/01/05", TotalPrice: i64(15000000), CommunityName: "三民麗景"},
	}
	c, err := e.IngestBatch(ctx, batch, ModeIncremental)
	if err != nil {
		t.Fatal(err)
	}
	if c.Inserted != 1 || c.Enriched != 1 {
		t.Errorf("variant spellings should merge: %+v", c)
	}

	stats, _ := st.GetStats(ctx)
	if stats.TotalRecords != 1 {
		t.Errorf("row count = %d, want 1", stats.TotalRecords)
	}
}

func TestIngestDiscards(t *testing.T) {
	e, _ := newTestEnricher(t)
	ctx := context.Background()

	batch := []models.RawRecord{
		{Address: "", TransactionDate: "112/01/05"},
		{Address: "台北市松山區健康路", TransactionDate: "112/02/01"}, // no door number
		{Address: "台北市松山區健康路10號", TransactionDate: ""},
	}
	c, err := e.IngestBatch(ctx, batch, ModeIncremental)
	if err != nil {
		t.Fatal(err)
	}
	if c.Discarded != 3 || c.Inserted != 0 {
		t.Errorf("counters = %+v, want 3 discarded", c)
	}
}

func TestIngestRetainsCadastralLots(t *testing.T) {
	e, st := newTestEnricher(t)
	ctx := context.Background()

	batch := []models.RawRecord{
		{Address: "桃園市平鎮區平鎮段827地號", TransactionDate: "112/03/10", TotalPrice: i64(3500000)},
	}
	c, err := e.IngestBatch(ctx, batch, ModeIncremental)
	if err != nil {
		t.Fatal(err)
	}
	if c.Inserted != 1 || c.Discarded != 0 {
		t.Fatalf("counters = %+v, want the lot record stored", c)
	}

	stats, err := st.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRecords != 1 {
		t.Fatalf("row count = %d, want 1", stats.TotalRecords)
	}

	rec, err := st.GetRecord(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil {
		t.Fatal("stored lot record not found")
	}
	if rec.Street != "" || rec.Number != "" || rec.Lane != "" {
		t.Errorf("lot record should keep structured fields empty: %+v", rec)
	}
}

func TestCSVAndAPIEnrichment(t *testing.T) {
	e, st := newTestEnricher(t)
	ctx := context.Background()

	// CSV row: structural detail, no coordinates or community.
	csvRec := models.RawRecord{
		RawDistrict:     "松山區",
		TransactionType: "房地(土地+建物)",
		Address:         "台北市松山區三民路29巷5號3樓",
		TransactionDate: "112/01/05",
		BuildingType:    "住宅大樓(11層含以上有電梯)",
		Rooms:           iptr(3),
		Halls:           iptr(2),
		Bathrooms:       iptr(2),
		BuildingArea:    f64(112.5),
		TotalPrice:      i64(12000000),
		Source:          "csv",
	}
	// API row: same day and price, different spelling, adds community
	// and coordinates.
	apiRec := models.RawRecord{
		Address:         "松山區三民路二十九巷五號三樓",
		TransactionDate: "112/01/05",
		CommunityName:   "松山雅築",
		Lat:             f64(25.0571),
		Lng:             f64(121.5639),
		TotalPrice:      i64(12000000),
		Source:          "api",
	}

	c, err := e.IngestBatch(ctx, []models.RawRecord{csvRec, apiRec}, ModeIncremental)
	if err != nil {
		t.Fatal(err)
	}
	if c.Inserted != 1 || c.Enriched != 1 {
		t.Fatalf("counters = %+v, want one insert + one enrich", c)
	}

	stats, _ := st.GetStats(ctx)
	if stats.TotalRecords != 1 {
		t.Fatalf("row count = %d, want 1", stats.TotalRecords)
	}
	if stats.UniqueCommunities != 1 || stats.Geocoded != 1 {
		t.Errorf("enrichment missing: %+v", stats)
	}
}

func TestIngestMergesByPriceKey(t *testing.T) {
	e, st := newTestEnricher(t)
	ctx := context.Background()

	// Listing addresses often drop the floor, so the address keys differ;
	// the (date, total price) key still pairs them.
	batch := []models.RawRecord{
		{Address: "台北市松山區三民路29巷5號3樓", TransactionDate: "112/01/05", TotalPrice: i64(12000000)},
		{Address: "松山區三民路29巷5號", TransactionDate: "112/01/05", TotalPrice: i64(12000000), CommunityName: "松山雅築"},
	}
	c, err := e.IngestBatch(ctx, batch, ModeIncremental)
	if err != nil {
		t.Fatal(err)
	}
	if c.Inserted != 1 || c.Enriched != 1 {
		t.Errorf("counters = %+v, want price-key merge", c)
	}

	stats, _ := st.GetStats(ctx)
	if stats.UniqueCommunities != 1 {
		t.Errorf("community not carried over: %+v", stats)
	}
}

func TestEnrichNeverOverwrites(t *testing.T) {
	e, st := newTestEnricher(t)
	ctx := context.Background()

	a := models.RawRecord{
		Address: "台北市松山區三民路29巷5號3樓", TransactionDate: "112/01/05",
		TotalPrice: i64(12000000), CommunityName: "松山雅築", Rooms: iptr(3),
	}
	b := models.RawRecord{
		Address: "台北市松山區三民路29巷5號3樓", TransactionDate: "112/01/05",
		TotalPrice: i64(12000000), CommunityName: "冒牌社區", Rooms: iptr(9),
		BuildingType: "公寓(5樓含以下無電梯)",
	}
	if _, err := e.IngestBatch(ctx, []models.RawRecord{a, b}, ModeIncremental); err != nil {
		t.Fatal(err)
	}

	summaries, err := st.CommunitySummaries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].Name != "松山雅築" {
		t.Errorf("existing community overwritten: %+v", summaries)
	}
}

func TestReadCSV(t *testing.T) {
	row := make([]string, govCSVColumns)
	row[0] = "松山區"
	row[1] = "房地(土地+建物)"
	row[2] = "台北市松山區三民路29巷5號3樓"
	row[7] = "1120105"
	row[16] = "3"
	row[21] = "12000000"
	header := strings.Repeat(",", govCSVColumns-1)
	data := "\uFEFF鄉鎮市區,交易標的" + strings.Repeat(",", govCSVColumns-3) + ",備註\n" +
		header + "\n" +
		strings.Join(row, ",") + "\n"

	records, err := ReadCSV(strings.NewReader(data), "A")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	r := records[0]
	if r.RawDistrict != "松山區" || r.Address != "台北市松山區三民路29巷5號3樓" {
		t.Errorf("bad row: %+v", r)
	}
	if r.Rooms == nil || *r.Rooms != 3 {
		t.Errorf("rooms = %v", r.Rooms)
	}
	if r.TotalPrice == nil || *r.TotalPrice != 12000000 {
		t.Errorf("total price = %v", r.TotalPrice)
	}
	if r.CityCode != "A" {
		t.Errorf("city code = %q", r.CityCode)
	}
}

func TestReadAPI(t *testing.T) {
	data := `[{
		"city": "台北市", "town": "松山區",
		"address": "98765#台北市松山區三民路29巷5號3樓",
		"community": "松山雅築",
		"date": "112/01/20",
		"floor": "三層/十二層",
		"total_price": 12000000,
		"lat": 25.0571, "lng": 121.5639,
		"detail": {"t": "房地(土地+建物)", "r": 3, "h": 2, "b": 2}
	}]`
	records, err := ReadAPI(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Address != "台北市松山區三民路29巷5號3樓" {
		t.Errorf("address not cleaned: %q", r.Address)
	}
	if r.FloorLevel != "三層" || r.TotalFloors != "十二層" {
		t.Errorf("floor split = %q / %q", r.FloorLevel, r.TotalFloors)
	}
	if r.CommunityName != "松山雅築" || r.Lat == nil {
		t.Errorf("enrichment fields missing: %+v", r)
	}
}
