package models

// Response is the JSON envelope of every API reply.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

// SessionCleanupResult is returned by the expired-session purge.
type SessionCleanupResult struct {
	Deleted int64 `json:"deleted"`
}

// LogoutAllResult reports how many sessions were revoked.
type LogoutAllResult struct {
	Revoked int64 `json:"revoked"`
}
