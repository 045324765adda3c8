package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/land-resolver/app/models"
	"github.com/land-resolver/internal/normalizer"
	"github.com/land-resolver/internal/parser"
	"github.com/land-resolver/internal/store"
)

// DefaultBatchSize is how many pending inserts accumulate before a flush.
const DefaultBatchSize = 10000

// Mode selects between wiping the table first and adding to it.
type Mode string

const (
	ModeRebuild     Mode = "rebuild"
	ModeIncremental Mode = "incremental"
)

// Counters reports what a batch did.
type Counters struct {
	Inserted  int `json:"inserted"`
	Enriched  int `json:"enriched"`
	Discarded int `json:"discarded"`
}

// Enricher is the dedup/enrich ingestion pipeline. Two keys identify a
// transaction across sources: (date, city-stripped normalized address)
// and (date, total price). A colliding record never creates a second row;
// it fills the empty columns of the existing one.
type Enricher struct {
	store     *store.Store
	norm      *normalizer.Normalizer
	parser    *parser.Parser
	disamb    *parser.Disambiguator
	logger    *zap.Logger
	batchSize int

	// Key → row id; negative values index pending (not yet flushed)
	// records as -(idx+1).
	addrKeys  map[string]int64
	priceKeys map[string]int64
	pending   []*models.TransactionRecord
}

// NewEnricher builds the pipeline. batchSize <= 0 selects the default.
func NewEnricher(st *store.Store, norm *normalizer.Normalizer, p *parser.Parser, d *parser.Disambiguator, batchSize int, logger *zap.Logger) *Enricher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Enricher{
		store:     st,
		norm:      norm,
		parser:    p,
		disamb:    d,
		logger:    logger,
		batchSize: batchSize,
		addrKeys:  make(map[string]int64),
		priceKeys: make(map[string]int64),
	}
}

// LoadIndex rebuilds the in-memory dedup key index from the store. Call
// once before incremental ingestion.
func (e *Enricher) LoadIndex(ctx context.Context) error {
	e.addrKeys = make(map[string]int64)
	e.priceKeys = make(map[string]int64)
	err := e.store.ForEachDedupRow(ctx, func(r store.DedupRow) error {
		date := dateKey(r.Date)
		e.addrKeys[date+"|"+parser.StripCityPrefix(e.norm.Normalize(r.Address))] = r.ID
		if r.TotalPrice != nil && *r.TotalPrice > 0 {
			e.priceKeys[date+"|"+strconv.FormatInt(*r.TotalPrice, 10)] = r.ID
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("load dedup index: %w", err)
	}
	e.logger.Info("dedup index loaded",
		zap.Int("addr_keys", len(e.addrKeys)),
		zap.Int("price_keys", len(e.priceKeys)))
	return nil
}

// IngestBatch runs a full batch of raw records through Upsert and flushes.
// ModeRebuild wipes the table (and key index) first.
func (e *Enricher) IngestBatch(ctx context.Context, records []models.RawRecord, mode Mode) (Counters, error) {
	var c Counters
	if mode == ModeRebuild {
		if err := e.store.DeleteAll(ctx); err != nil {
			return c, err
		}
		e.addrKeys = make(map[string]int64)
		e.priceKeys = make(map[string]int64)
	}

	for i := range records {
		action, err := e.Upsert(ctx, &records[i])
		if err != nil {
			return c, err
		}
		switch action {
		case ActionInserted:
			c.Inserted++
		case ActionEnriched:
			c.Enriched++
		case ActionDiscarded:
			c.Discarded++
		}
	}
	if err := e.Flush(ctx); err != nil {
		return c, err
	}
	if err := e.store.RebuildFTS(ctx); err != nil {
		return c, err
	}
	e.logger.Info("batch ingested",
		zap.Int("inserted", c.Inserted),
		zap.Int("enriched", c.Enriched),
		zap.Int("discarded", c.Discarded))
	return c, nil
}

// Upsert actions.
const (
	ActionInserted  = "inserted"
	ActionEnriched  = "enriched"
	ActionDiscarded = "discarded"
)

// Upsert feeds one raw record through normalize → parse → dedup. Records
// without a door or lot marker are discarded, never half-stored.
func (e *Enricher) Upsert(ctx context.Context, raw *models.RawRecord) (string, error) {
	if strings.TrimSpace(raw.Address) == "" || strings.TrimSpace(raw.TransactionDate) == "" {
		return ActionDiscarded, nil
	}

	parsed, err := e.parser.Parse(raw.Address, raw.RawDistrict)
	if err != nil {
		if !errors.Is(err, parser.ErrLotNumber) {
			return ActionDiscarded, nil
		}
		// Cadastral lots (地號) are stored with empty structured fields;
		// only the full-text and LIKE tiers can reach them.
		parsed = models.ParsedAddress{}
	}

	normalized := e.norm.Normalize(strings.TrimSpace(raw.Address))
	if !strings.Contains(normalized, "號") {
		return ActionDiscarded, nil
	}

	if parsed.CountyCity == "" {
		parsed.CountyCity = e.disamb.ResolveCity(ctx, parsed.District, "", raw.CityCode)
	}

	rec := recordFromRaw(raw, parsed, normalized)
	date := dateKey(rec.TransactionDate)
	addrKey := date + "|" + parser.StripCityPrefix(normalized)
	rec.DedupKey = addrKey

	var priceKey string
	if raw.TotalPrice != nil && *raw.TotalPrice > 0 {
		priceKey = date + "|" + strconv.FormatInt(*raw.TotalPrice, 10)
	}

	if ref, ok := e.addrKeys[addrKey]; ok {
		return e.enrichExisting(ctx, ref, rec)
	}
	if priceKey != "" {
		if ref, ok := e.priceKeys[priceKey]; ok {
			return e.enrichExisting(ctx, ref, rec)
		}
	}

	e.pending = append(e.pending, rec)
	ref := int64(-len(e.pending)) // -(idx+1)
	e.addrKeys[addrKey] = ref
	if priceKey != "" {
		e.priceKeys[priceKey] = ref
	}
	if len(e.pending) >= e.batchSize {
		if err := e.Flush(ctx); err != nil {
			return "", err
		}
	}
	return ActionInserted, nil
}

// Flush writes pending inserts and rewires their dedup keys to real ids.
func (e *Enricher) Flush(ctx context.Context) error {
	if len(e.pending) == 0 {
		return nil
	}
	ids, err := e.store.InsertRecords(ctx, e.pending)
	if err != nil {
		return fmt.Errorf("flush pending inserts: %w", err)
	}
	for key, ref := range e.addrKeys {
		if ref < 0 {
			e.addrKeys[key] = ids[-ref-1]
		}
	}
	for key, ref := range e.priceKeys {
		if ref < 0 {
			e.priceKeys[key] = ids[-ref-1]
		}
	}
	e.logger.Debug("flushed batch", zap.Int("rows", len(ids)))
	e.pending = e.pending[:0]
	return nil
}

// enrichExisting fills empty columns of the row behind ref (a row id, or
// a negative pending index) from the incoming record. A collision that
// fills nothing counts as a discarded duplicate, so a second pass over
// the same file reports zero inserted and zero enriched.
func (e *Enricher) enrichExisting(ctx context.Context, ref int64, incoming *models.TransactionRecord) (string, error) {
	if ref < 0 {
		target := e.pending[-ref-1]
		changed := false
		for _, f := range enrichFields {
			if !f.empty(target) {
				continue
			}
			if _, ok := f.value(incoming); ok {
				f.copy(target, incoming)
				changed = true
			}
		}
		if changed {
			return ActionEnriched, nil
		}
		return ActionDiscarded, nil
	}

	existing, err := e.store.GetRecord(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("load row %d for enrich: %w", ref, err)
	}
	if existing == nil {
		return ActionDiscarded, nil
	}
	updates := make(map[string]any)
	for _, f := range enrichFields {
		if !f.empty(existing) {
			continue
		}
		if v, ok := f.value(incoming); ok {
			updates[f.column] = v
		}
	}
	if len(updates) == 0 {
		return ActionDiscarded, nil
	}
	if err := e.store.EnrichRow(ctx, ref, updates); err != nil {
		return "", err
	}
	return ActionEnriched, nil
}

// dateKey is the first 7 digits of the slash-stripped ROC date.
func dateKey(date string) string {
	d := strings.ReplaceAll(date, "/", "")
	if len(d) > 7 {
		return d[:7]
	}
	return d
}

func recordFromRaw(raw *models.RawRecord, parsed models.ParsedAddress, normalized string) *models.TransactionRecord {
	floor := parsed.Floor
	sub := parsed.SubNumber
	if sub == "" {
		// Storage keeps one sub_number column; a floor-scoped 之N lands
		// there when the door itself has none.
		sub = parsed.FloorSubNumber
	}
	return &models.TransactionRecord{
		RawDistrict:      raw.RawDistrict,
		TransactionType:  raw.TransactionType,
		Address:          normalized,
		LandArea:         raw.LandArea,
		UrbanZone:        raw.UrbanZone,
		NonUrbanZone:     raw.NonUrbanZone,
		NonUrbanUse:      raw.NonUrbanUse,
		TransactionDate:  strings.ReplaceAll(raw.TransactionDate, "/", ""),
		TransactionCount: raw.TransactionCount,
		FloorLevel:       raw.FloorLevel,
		TotalFloors:      raw.TotalFloors,
		BuildingType:     raw.BuildingType,
		MainUse:          raw.MainUse,
		MainMaterial:     raw.MainMaterial,
		BuildDate:        raw.BuildDate,
		BuildingArea:     raw.BuildingArea,
		Rooms:            raw.Rooms,
		Halls:            raw.Halls,
		Bathrooms:        raw.Bathrooms,
		Partitioned:      raw.Partitioned,
		HasManagement:    raw.HasManagement,
		TotalPrice:       raw.TotalPrice,
		UnitPrice:        raw.UnitPrice,
		ParkingType:      raw.ParkingType,
		ParkingArea:      raw.ParkingArea,
		ParkingPrice:     raw.ParkingPrice,
		Note:             raw.Note,
		SerialNo:         raw.SerialNo,
		MainArea:         raw.MainArea,
		AttachedArea:     raw.AttachedArea,
		BalconyArea:      raw.BalconyArea,
		Elevator:         raw.Elevator,
		TransferNo:       raw.TransferNo,
		CountyCity:       parsed.CountyCity,
		District:         parsed.District,
		Village:          parsed.Village,
		Street:           parsed.Street,
		Lane:             parsed.Lane,
		Alley:            parsed.Alley,
		Number:           parsed.Number,
		Floor:            floor,
		SubNumber:        sub,
		CommunityName:    raw.CommunityName,
		Lat:              raw.Lat,
		Lng:              raw.Lng,
	}
}
