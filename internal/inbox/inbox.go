// Package inbox stores the messages sent from the contact page.
package inbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Message is one contact form submission.
type Message struct {
	Name       string
	Email      string
	Subject    string
	Body       string
	ReceivedAt time.Time
}

// Store keeps contact messages.
type Store interface {
	Save(ctx context.Context, m Message) error
	Ping(ctx context.Context) error
}

const schema = `CREATE TABLE IF NOT EXISTS contact_messages (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL,
	subject     TEXT NOT NULL,
	body        TEXT NOT NULL,
	received_at TIMESTAMPTZ NOT NULL
)`

const insertMessage = `INSERT INTO contact_messages (name, email, subject, body, received_at)
VALUES ($1, $2, $3, $4, $5)`

// PGStore keeps messages in Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

// Connect opens a pool on url, pings it and makes sure the messages table exists.
func Connect(ctx context.Context, url string) (*PGStore, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the messages table when it is missing.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create contact_messages: %w", err)
	}
	return nil
}

func (s *PGStore) Save(ctx context.Context, m Message) error {
	if m.ReceivedAt.IsZero() {
		m.ReceivedAt = time.Now().UTC()
	}
	if _, err := s.pool.Exec(ctx, insertMessage, m.Name, m.Email, m.Subject, m.Body, m.ReceivedAt); err != nil {
		return fmt.Errorf("save contact message: %w", err)
	}
	return nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PGStore) Close() {
	s.pool.Close()
}

// LogStore writes messages to the log. It is used when no database is configured.
type LogStore struct {
	logger *zap.Logger
}

func NewLogStore(logger *zap.Logger) *LogStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogStore{logger: logger}
}

func (s *LogStore) Save(_ context.Context, m Message) error {
	s.logger.Info("contact message received",
		zap.String("name", m.Name),
		zap.String("email", m.Email),
		zap.String("subject", m.Subject),
		zap.Int("length", len([]rune(m.Body))),
	)
	return nil
}

func (s *LogStore) Ping(context.Context) error {
	return nil
}
