package responses

import (
	"github.com/land-resolver/app/models"
)

// ResolveAddressResponse is the body of POST /v1/addresses/resolve.
type ResolveAddressResponse struct {
	Query            string                   `json:"query"`
	Normalized       string                   `json:"normalized"`
	Results          []models.ResolveCandidate `json:"results"`
	ProcessingTimeMs int64                    `json:"processing_time_ms"`
}

// CommunitySearchResponse is the body of GET /v1/communities/search.
type CommunitySearchResponse struct {
	Keyword          string                  `json:"keyword"`
	Results          []models.CommunityMatch `json:"results"`
	ProcessingTimeMs int64                   `json:"processing_time_ms"`
}

// CommunityResolveResponse is the body of POST /v1/communities/resolve.
type CommunityResolveResponse struct {
	Address          string                      `json:"address"`
	Results          []models.CommunityCandidate `json:"results"`
	ProcessingTimeMs int64                       `json:"processing_time_ms"`
}

// GeocodeResponse is the body of POST /v1/addresses/geocode.
type GeocodeResponse struct {
	Address   string  `json:"address"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Precision string  `json:"precision"`
}

// IngestResponse acknowledges an accepted ingestion job.
type IngestResponse struct {
	JobID   string `json:"job_id"`
	Mode    string `json:"mode"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

// JobStatusResponse reports ingestion job progress.
type JobStatusResponse struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Inserted  int    `json:"inserted"`
	Enriched  int    `json:"enriched"`
	Discarded int    `json:"discarded"`
	Message   string `json:"message"`
}

// Job status constants.
const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// AdminStatsResponse is the body of GET /v1/admin/stats.
type AdminStatsResponse struct {
	TotalRecords      int64   `json:"total_records"`
	UniqueAddresses   int64   `json:"unique_addresses"`
	UniqueCommunities int64   `json:"unique_communities"`
	Geocoded          int64   `json:"geocoded"`
	CacheHitRate      float64 `json:"cache_hit_rate"`
	UptimeSeconds     int64   `json:"uptime_seconds"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse is the uniform success envelope for operations
// without a dedicated body.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// HealthCheckResponse is the body of GET /health.
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}
