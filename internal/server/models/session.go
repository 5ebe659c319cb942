package models

// Session is one authenticated period of access. Timestamps are Unix epoch
// seconds; a session is live while ExpiresAt is in the future.
type Session struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
}
