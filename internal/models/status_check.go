package models

import "time"

// StatusCheck is the legacy liveness record kept in the document store.
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}
