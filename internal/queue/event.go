// Package queue defines message payloads exchanged over the message broker.
package queue

// LoginQueueName is the durable queue login events are published to.
const LoginQueueName = "auth.login"

// LoginEvent is published after every successful login, by password or by
// an OAuth provider.  It carries enough information for downstream
// consumers to audit logins without querying the primary database.
type LoginEvent struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Method     string `json:"method"` // "password" or the provider name
	DeviceType string `json:"device_type"`
	UserAgent  string `json:"user_agent"`
	LoggedInAt string `json:"logged_in_at"` // RFC 3339, UTC
}
