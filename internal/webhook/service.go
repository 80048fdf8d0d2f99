package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB interface for database operations
type DB interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Service delivers attendance events to the endpoint configured for the
// deployment. Events are queued first and delivered by the worker, so a slow
// or unreachable endpoint never holds up an attendance response.
type Service struct {
	db     DB
	client *http.Client
	url    string
	secret string
}

func NewService(db *pgxpool.Pool, url, secret string) *Service {
	return NewServiceWithDB(db, url, secret)
}

func NewServiceWithDB(db DB, url, secret string) *Service {
	return &Service{
		db:     db,
		url:    url,
		secret: secret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enqueue stores an event for delivery by the worker
func (s *Service) Enqueue(ctx context.Context, eventType string, data interface{}) error {
	payload, err := json.Marshal(EventPayload{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	query := `
		INSERT INTO webhook_queue (event_type, payload)
		VALUES ($1, $2)
	`

	_, err = s.db.Exec(ctx, query, eventType, payload)
	if err != nil {
		return fmt.Errorf("enqueue webhook: %w", err)
	}

	return nil
}

// deliver posts a signed payload to the configured endpoint
func (s *Service) deliver(ctx context.Context, eventType string, payload []byte) error {
	signature := Sign(s.secret, payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Chamada-Signature", signature)
	req.Header.Set("X-Chamada-Event", eventType)
	req.Header.Set("User-Agent", "Chamada-Webhook/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return nil
}
