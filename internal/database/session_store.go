package database

import (
	"context"
	"fmt"
	"time"
)

// SessionStore keeps encoded web sessions in the session table. Rows past
// expires_at are treated as absent and removed by PurgeExpired.
type SessionStore struct {
	client *Client[sessionRecord]
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *Client[sessionRecord]) *SessionStore {
	return &SessionStore{client: client}
}

// Load returns the encoded payload for id. Missing and expired sessions
// return domain.ErrNotFound.
func (s *SessionStore) Load(ctx context.Context, id string) (string, error) {
	rec, err := s.client.QueryOne(ctx, "SELECT * FROM $id WHERE expires_at > $now", map[string]any{
		"id":  recordID(sessionTable, id),
		"now": dateTime(time.Now()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if rec == nil {
		return "", notFound("session", id)
	}
	return rec.Data, nil
}

// Save upserts the payload and pushes the expiry forward.
func (s *SessionStore) Save(ctx context.Context, id, data string, expiresAt time.Time) error {
	err := s.client.Execute(ctx, "UPSERT $id CONTENT $data", map[string]any{
		"id": recordID(sessionTable, id),
		"data": map[string]any{
			"data":       data,
			"expires_at": dateTime(expiresAt),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Execute(ctx, "DELETE $id", map[string]any{"id": recordID(sessionTable, id)}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired deletes every session that expired before now and reports how many went.
func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.client.Mutate(ctx, "DELETE session WHERE expires_at <= $now RETURN BEFORE", map[string]any{
		"now": dateTime(now),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return len(rows), nil
}
