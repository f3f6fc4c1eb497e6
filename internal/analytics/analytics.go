package analytics

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is the document collection holding lifecycle events.
const Collection = "task_event"

// Inserter is the single gateway operation analytics needs.
type Inserter interface {
	Insert(ctx context.Context, collection string, fields bson.M) (primitive.ObjectID, error)
}

// Envelope is what we store with every event.
// Backend-trustable fields only.
type Envelope struct {
	SessionID    string
	Platform     string
	AppVersion   string
	DeviceLocale string
}

// FromRequest extracts event envelope fields from request headers.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "ios", "android", "web":
	default:
		platform = "unknown"
	}

	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	return Envelope{
		SessionID:    strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:     platform,
		AppVersion:   strings.TrimSpace(r.Header.Get("X-App-Version")),
		DeviceLocale: locale,
	}
}

// Log records one lifecycle event. Callers treat it as best effort: a failed
// write must never fail the task operation that triggered it.
func Log(ctx context.Context, st Inserter, env Envelope, event string, props bson.M) error {
	doc := bson.M{
		"event":         event,
		"ts":            time.Now().UTC(),
		"session_id":    env.SessionID,
		"platform":      env.Platform,
		"app_version":   env.AppVersion,
		"device_locale": env.DeviceLocale,
		"props":         props,
	}
	_, err := st.Insert(ctx, Collection, doc)
	return err
}
