// Package service provides business logic shared between handlers,
// currently the audit event log.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"goblog/internal/model"
	"goblog/internal/store"
)

// EventService records audit events (logins, forbidden access, post
// management) in the events table.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// LogEvent creates a new audit event. Metadata is serialized to JSON;
// failures are logged but never propagated to the request path.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	var nullUserID sql.NullInt64
	if userID != nil {
		nullUserID = sql.NullInt64{Int64: *userID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		IPAddress: ipAddress,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err, "category", category)
		return err
	}

	return nil
}

// LogAuthEvent logs an authentication-related event with the caller's
// browser and OS attached to the metadata.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, userID *int64, r *http.Request, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	client := ParseClient(r.UserAgent())
	metadata["browser"] = client.Browser
	metadata["os"] = client.OS
	metadata["device"] = client.Device
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, userID, RemoteIP(r), metadata)
}

// LogPostEvent logs a post-management event.
func (s *EventService) LogPostEvent(ctx context.Context, level, message string, userID *int64, r *http.Request, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryPost, message, userID, RemoteIP(r), metadata)
}

// LogCommentEvent logs a comment event.
func (s *EventService) LogCommentEvent(ctx context.Context, level, message string, userID *int64, r *http.Request, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryComment, message, userID, RemoteIP(r), metadata)
}

// LogUserEvent logs a user-lifecycle event (registration).
func (s *EventService) LogUserEvent(ctx context.Context, level, message string, userID *int64, r *http.Request, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryUser, message, userID, RemoteIP(r), metadata)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	return s.queries.DeleteOldEvents(ctx, cutoff)
}
