package store

const createTableSQL = `
CREATE TABLE IF NOT EXISTS land_transaction (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    raw_district      TEXT DEFAULT '',
    transaction_type  TEXT DEFAULT '',
    address           TEXT DEFAULT '',
    land_area         REAL,
    urban_zone        TEXT DEFAULT '',
    non_urban_zone    TEXT DEFAULT '',
    non_urban_use     TEXT DEFAULT '',
    transaction_date  TEXT DEFAULT '',
    transaction_count TEXT DEFAULT '',
    floor_level       TEXT DEFAULT '',
    total_floors      TEXT DEFAULT '',
    building_type     TEXT DEFAULT '',
    main_use          TEXT DEFAULT '',
    main_material     TEXT DEFAULT '',
    build_date        TEXT DEFAULT '',
    building_area     REAL,
    rooms             INTEGER,
    halls             INTEGER,
    bathrooms         INTEGER,
    partitioned       TEXT DEFAULT '',
    has_management    TEXT DEFAULT '',
    total_price       INTEGER,
    unit_price        REAL,
    parking_type      TEXT DEFAULT '',
    parking_area      REAL,
    parking_price     INTEGER,
    note              TEXT DEFAULT '',
    serial_no         TEXT DEFAULT '',
    main_area         REAL,
    attached_area     REAL,
    balcony_area      REAL,
    elevator          TEXT DEFAULT '',
    transfer_no       TEXT DEFAULT '',
    county_city       TEXT DEFAULT '',
    district          TEXT DEFAULT '',
    village           TEXT DEFAULT '',
    street            TEXT DEFAULT '',
    lane              TEXT DEFAULT '',
    alley             TEXT DEFAULT '',
    number            TEXT DEFAULT '',
    floor             TEXT DEFAULT '',
    sub_number        TEXT DEFAULT '',
    community_name    TEXT DEFAULT '',
    lat               REAL,
    lng               REAL,
    dedup_key         TEXT DEFAULT ''
)`

// External-content FTS over the address column; rebuilt after ingestion.
const createFTSSQL = `
CREATE VIRTUAL TABLE IF NOT EXISTS address_fts USING fts5(
    address,
    content='land_transaction',
    content_rowid='id',
    tokenize='unicode61'
)`

var createIndexSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_lt_county_city ON land_transaction(county_city)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_district ON land_transaction(district)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_street ON land_transaction(street)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_lane ON land_transaction(lane)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_number ON land_transaction(number)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_floor ON land_transaction(floor)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_street_lane ON land_transaction(street, lane)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_street_number ON land_transaction(street, number)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_date ON land_transaction(transaction_date)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_price ON land_transaction(total_price)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_community ON land_transaction(community_name)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_dedup ON land_transaction(dedup_key)`,
	`CREATE INDEX IF NOT EXISTS idx_lt_full ON land_transaction(county_city, district, street, lane, number)`,
}

// recordColumns lists every column except id, in insert order.
var recordColumns = []string{
	"raw_district", "transaction_type", "address",
	"land_area", "urban_zone", "non_urban_zone", "non_urban_use",
	"transaction_date", "transaction_count", "floor_level", "total_floors",
	"building_type", "main_use", "main_material", "build_date",
	"building_area", "rooms", "halls", "bathrooms", "partitioned",
	"has_management", "total_price", "unit_price",
	"parking_type", "parking_area", "parking_price",
	"note", "serial_no", "main_area", "attached_area",
	"balcony_area", "elevator", "transfer_no",
	"county_city", "district", "village", "street", "lane", "alley",
	"number", "floor", "sub_number",
	"community_name", "lat", "lng",
	"dedup_key",
}
