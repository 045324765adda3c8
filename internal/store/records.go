package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/land-resolver/app/models"
)

func recordValues(r *models.TransactionRecord) []any {
	return []any{
		r.RawDistrict, r.TransactionType, r.Address,
		nullFloat(r.LandArea), r.UrbanZone, r.NonUrbanZone, r.NonUrbanUse,
		r.TransactionDate, r.TransactionCount, r.FloorLevel, r.TotalFloors,
		r.BuildingType, r.MainUse, r.MainMaterial, r.BuildDate,
		nullFloat(r.BuildingArea), nullInt(r.Rooms), nullInt(r.Halls), nullInt(r.Bathrooms), r.Partitioned,
		r.HasManagement, nullInt64(r.TotalPrice), nullFloat(r.UnitPrice),
		r.ParkingType, nullFloat(r.ParkingArea), nullInt64(r.ParkingPrice),
		r.Note, r.SerialNo, nullFloat(r.MainArea), nullFloat(r.AttachedArea),
		nullFloat(r.BalconyArea), r.Elevator, r.TransferNo,
		r.CountyCity, r.District, r.Village, r.Street, r.Lane, r.Alley,
		r.Number, r.Floor, r.SubNumber,
		r.CommunityName, nullFloat(r.Lat), nullFloat(r.Lng),
		r.DedupKey,
	}
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

// InsertRecords writes a batch inside one transaction and returns the
// assigned row ids, in input order.
func (s *Store) InsertRecords(ctx context.Context, records []*models.TransactionRecord) ([]int64, error) {
	if len(records) == 0 {
		return nil, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert batch: %w", err)
	}
	defer tx.Rollback()

	placeholders := "?" + strings.Repeat(",?", len(recordColumns)-1)
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO land_transaction (%s) VALUES (%s)",
		strings.Join(recordColumns, ","), placeholders))
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(records))
	for _, r := range records {
		res, err := stmt.ExecContext(ctx, recordValues(r)...)
		if err != nil {
			return nil, fmt.Errorf("insert record %q: %w", r.Address, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert batch: %w", err)
	}
	return ids, nil
}

// EnrichRow applies fill-if-empty column updates to one row. The caller
// decides which columns qualify; this just writes them.
func (s *Store) EnrichRow(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	q := s.builder.Update("land_transaction").SetMap(updates).Where("id = ?", id)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build enrich update: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("enrich row %d: %w", id, err)
	}
	return nil
}

// DeleteAll empties the table for a rebuild ingestion.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM land_transaction"); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	return nil
}

// DedupRow is the slice of a record the ingest pipeline needs to rebuild
// its dedup key index.
type DedupRow struct {
	ID         int64
	Date       string
	Address    string
	TotalPrice *int64
}

// ForEachDedupRow streams id/date/address/price for every row whose
// address carries a door number.
func (s *Store) ForEachDedupRow(ctx context.Context, fn func(DedupRow) error) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transaction_date, address, total_price
		FROM land_transaction
		WHERE address LIKE '%號%'`)
	if err != nil {
		return fmt.Errorf("dedup scan: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r DedupRow
		var price sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Date, &r.Address, &price); err != nil {
			return err
		}
		if price.Valid {
			r.TotalPrice = &price.Int64
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return rows.Err()
}

// GetRecord loads one full row by id.
func (s *Store) GetRecord(ctx context.Context, id int64) (*models.TransactionRecord, error) {
	row := s.db.QueryRowContext(ctx, selectRecordSQL+" WHERE id = ?", id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

const selectRecordSQL = `
SELECT id, raw_district, transaction_type, address,
       land_area, urban_zone, non_urban_zone, non_urban_use,
       transaction_date, transaction_count, floor_level, total_floors,
       building_type, main_use, main_material, build_date,
       building_area, rooms, halls, bathrooms, partitioned,
       has_management, total_price, unit_price,
       parking_type, parking_area, parking_price,
       note, serial_no, main_area, attached_area,
       balcony_area, elevator, transfer_no,
       county_city, district, village, street, lane, alley,
       number, floor, sub_number,
       community_name, lat, lng, dedup_key
FROM land_transaction`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a full row; extra receives any trailing columns the
// query appended (e.g. addr_count).
func scanRecord(row rowScanner, extra ...any) (*models.TransactionRecord, error) {
	var r models.TransactionRecord
	var (
		landArea, buildingArea, unitPrice       sql.NullFloat64
		parkingArea, mainArea, attachedArea     sql.NullFloat64
		balconyArea, lat, lng                   sql.NullFloat64
		rooms, halls, bathrooms                 sql.NullInt64
		totalPrice, parkingPrice                sql.NullInt64
	)
	dest := []any{&r.ID, &r.RawDistrict, &r.TransactionType, &r.Address,
		&landArea, &r.UrbanZone, &r.NonUrbanZone, &r.NonUrbanUse,
		&r.TransactionDate, &r.TransactionCount, &r.FloorLevel, &r.TotalFloors,
		&r.BuildingType, &r.MainUse, &r.MainMaterial, &r.BuildDate,
		&buildingArea, &rooms, &halls, &bathrooms, &r.Partitioned,
		&r.HasManagement, &totalPrice, &unitPrice,
		&r.ParkingType, &parkingArea, &parkingPrice,
		&r.Note, &r.SerialNo, &mainArea, &attachedArea,
		&balconyArea, &r.Elevator, &r.TransferNo,
		&r.CountyCity, &r.District, &r.Village, &r.Street, &r.Lane, &r.Alley,
		&r.Number, &r.Floor, &r.SubNumber,
		&r.CommunityName, &lat, &lng, &r.DedupKey}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	r.LandArea = floatPtr(landArea)
	r.BuildingArea = floatPtr(buildingArea)
	r.UnitPrice = floatPtr(unitPrice)
	r.ParkingArea = floatPtr(parkingArea)
	r.MainArea = floatPtr(mainArea)
	r.AttachedArea = floatPtr(attachedArea)
	r.BalconyArea = floatPtr(balconyArea)
	r.Lat = floatPtr(lat)
	r.Lng = floatPtr(lng)
	r.Rooms = intPtr(rooms)
	r.Halls = intPtr(halls)
	r.Bathrooms = intPtr(bathrooms)
	r.TotalPrice = int64Ptr(totalPrice)
	r.ParkingPrice = int64Ptr(parkingPrice)
	return &r, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}
