package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/land-resolver/app/models"
)

// govCSVColumns is the published 實價登錄 CSV layout.
const govCSVColumns = 33

// ReadCSV parses a government open-data CSV into raw records. The files
// carry a UTF-8 BOM, a Chinese header row and an English header row; both
// header rows are skipped. Short or malformed rows are dropped, not fatal.
func ReadCSV(r io.Reader, cityCode string) ([]models.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var records []models.RawRecord
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line+1, err)
		}
		line++
		if line <= 2 { // two header rows
			continue
		}
		if len(row) < govCSVColumns {
			continue
		}
		records = append(records, rawFromCSVRow(row, cityCode))
	}
	return records, nil
}

func rawFromCSVRow(row []string, cityCode string) models.RawRecord {
	return models.RawRecord{
		RawDistrict:      strings.TrimSpace(row[0]),
		TransactionType:  strings.TrimSpace(row[1]),
		Address:          strings.TrimSpace(row[2]),
		LandArea:         parseFloat(row[3]),
		UrbanZone:        strings.TrimSpace(row[4]),
		NonUrbanZone:     strings.TrimSpace(row[5]),
		NonUrbanUse:      strings.TrimSpace(row[6]),
		TransactionDate:  strings.TrimSpace(row[7]),
		TransactionCount: strings.TrimSpace(row[8]),
		FloorLevel:       strings.TrimSpace(row[9]),
		TotalFloors:      strings.TrimSpace(row[10]),
		BuildingType:     strings.TrimSpace(row[11]),
		MainUse:          strings.TrimSpace(row[12]),
		MainMaterial:     strings.TrimSpace(row[13]),
		BuildDate:        strings.TrimSpace(row[14]),
		BuildingArea:     parseFloat(row[15]),
		Rooms:            parseInt(row[16]),
		Halls:            parseInt(row[17]),
		Bathrooms:        parseInt(row[18]),
		Partitioned:      strings.TrimSpace(row[19]),
		HasManagement:    strings.TrimSpace(row[20]),
		TotalPrice:       parsePrice(row[21]),
		UnitPrice:        parseFloat(row[22]),
		ParkingType:      strings.TrimSpace(row[23]),
		ParkingArea:      parseFloat(row[24]),
		ParkingPrice:     parsePrice(row[25]),
		Note:             strings.TrimSpace(row[26]),
		SerialNo:         strings.TrimSpace(row[27]),
		MainArea:         parseFloat(row[28]),
		AttachedArea:     parseFloat(row[29]),
		BalconyArea:      parseFloat(row[30]),
		Elevator:         strings.TrimSpace(row[31]),
		TransferNo:       strings.TrimSpace(row[32]),
		CityCode:         cityCode,
		Source:           "csv",
	}
}

func parseFloat(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parsePrice(s string) *int64 {
	s = strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), " ", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
