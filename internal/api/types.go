package api

// ErrorResponse is returned on errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthzResponse is returned by GET /healthz.
type HealthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// SweepResponse is returned by POST /v1/logs/sweep.
type SweepResponse struct {
	Deleted       int `json:"deleted"`
	RetentionDays int `json:"retention_days"`
}

// LogDirResponse is returned by GET /v1/logs/dir.
type LogDirResponse struct {
	Dir string `json:"dir"`
}

// OpenedResponse is returned by POST /v1/logs/open.
type OpenedResponse struct {
	Opened bool `json:"opened"`
}
