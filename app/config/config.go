package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerCfg struct {
	Port int `yaml:"port" json:"port"`
}

type DatabaseCfg struct {
	Path string `yaml:"path" json:"path"`
}

type IngestCfg struct {
	BatchSize int `yaml:"batch_size" json:"batch_size"`
}

type ResolverCfg struct {
	Limit int `yaml:"limit" json:"limit"`
}

type GeocodeCfg struct {
	URL       string `yaml:"url" json:"url"`
	TimeoutMs int    `yaml:"timeout_ms" json:"timeout_ms"`
	CacheSize int    `yaml:"cache_size" json:"cache_size"`
}

type RedisCfg struct {
	URL      string `yaml:"url" json:"url"`
	TTLHours int    `yaml:"ttl_hours" json:"ttl_hours"`
}

type AppCfg struct {
	Server   ServerCfg   `yaml:"server" json:"server"`
	Database DatabaseCfg `yaml:"database" json:"database"`
	Ingest   IngestCfg   `yaml:"ingest" json:"ingest"`
	Resolver ResolverCfg `yaml:"resolver" json:"resolver"`
	Geocode  GeocodeCfg  `yaml:"geocode" json:"geocode"`
	Redis    RedisCfg    `yaml:"redis" json:"redis"`
}

var C = AppCfg{
	Server:   ServerCfg{Port: 8080},
	Database: DatabaseCfg{Path: "db/land_data.db"},
	Ingest:   IngestCfg{BatchSize: 10000},
	Resolver: ResolverCfg{Limit: 200},
	Geocode:  GeocodeCfg{TimeoutMs: 5000, CacheSize: 10000},
	Redis:    RedisCfg{TTLHours: 720},
}

// Load reads the YAML config over the defaults, then applies env
// overrides. A missing file is fine; env-only deployments carry no
// config file at all.
func Load(path string) error {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return err
			}
		} else if err := yaml.Unmarshal(b, &C); err != nil {
			return err
		}
	}

	if v := os.Getenv("LAND_DB_PATH"); v != "" {
		C.Database.Path = v
	}
	if v := os.Getenv("LAND_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			C.Server.Port = port
		}
	}
	if v := os.Getenv("LAND_GEOCODE_URL"); v != "" {
		C.Geocode.URL = v
	}
	if v := os.Getenv("LAND_REDIS_URL"); v != "" {
		C.Redis.URL = v
	}
	return nil
}

func GeocodeTimeout() time.Duration {
	return time.Duration(C.Geocode.TimeoutMs) * time.Millisecond
}

func RedisTTL() time.Duration {
	return time.Duration(C.Redis.TTLHours) * time.Hour
}
