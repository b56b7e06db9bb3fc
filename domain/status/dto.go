package status

import (
	"fmt"
	"time"

	"github.com/akeren/resfi-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionName = "status_checks"

	MessageCreated    = "Status check recorded"
	MessageListed     = "Status checks retrieved successfully"
	MessageStoreError = "Failed to access status checks"
)

// Older documents carry naive timestamps without a zone; they are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// statusCheckDocument is the stored shape. Timestamps are written as ISO-8601
// strings; BSON dates are accepted on read.
type statusCheckDocument struct {
	ID         string `bson:"id"`
	ClientName string `bson:"client_name"`
	Timestamp  any    `bson:"timestamp"`
}

type StatusCheckResponse struct {
	ID         string `json:"id"`
	ClientName string `json:"client_name"`
	Timestamp  string `json:"timestamp"`
}

func toDocument(check *models.StatusCheck) statusCheckDocument {
	return statusCheckDocument{
		ID:         check.ID,
		ClientName: check.ClientName,
		Timestamp:  check.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

func fromDocument(doc statusCheckDocument) (*models.StatusCheck, error) {
	ts, err := parseTimestamp(doc.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("status check %s: %w", doc.ID, err)
	}

	return &models.StatusCheck{
		ID:         doc.ID,
		ClientName: doc.ClientName,
		Timestamp:  ts,
	}, nil
}

func parseTimestamp(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case primitive.DateTime:
		return v.Time().UTC(), nil
	case time.Time:
		return v.UTC(), nil
	case string:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable timestamp %q", v)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", raw)
	}
}

func ToStatusCheckResponse(check *models.StatusCheck) StatusCheckResponse {
	if check == nil {
		return StatusCheckResponse{}
	}
	return StatusCheckResponse{
		ID:         check.ID,
		ClientName: check.ClientName,
		Timestamp:  check.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}
