// Package store persists which guild channels have AI chat enabled.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound is returned when a channel has no activation row
var ErrNotFound = errors.New("channel not found")

// Channel is an AI chat activation record
type Channel struct {
	GuildID   string
	ChannelID string
	EnabledBy string
	EnabledAt time.Time
}

// Store wraps the database connection
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the channel database at path
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS ai_channels (
			guild_id TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			enabled_by TEXT NOT NULL DEFAULT '',
			enabled_at_ms INTEGER NOT NULL,
			PRIMARY KEY (guild_id, channel_id)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init channel schema: %w", err)
		}
	}
	return nil
}

// FindActiveChannel returns the activation record for a channel, or nil when
// AI chat is not enabled there.
func (s *Store) FindActiveChannel(ctx context.Context, guildID, channelID string) (*Channel, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT guild_id, channel_id, enabled_by, enabled_at_ms FROM ai_channels WHERE guild_id = ? AND channel_id = ?`,
		guildID, channelID)

	ch, err := scanChannel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active channel: %w", err)
	}
	return ch, nil
}

// EnableChannel turns AI chat on for a channel. Enabling twice keeps the
// latest actor and timestamp.
func (s *Store) EnableChannel(ctx context.Context, guildID, channelID, enabledBy string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ai_channels (guild_id, channel_id, enabled_by, enabled_at_ms) VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id, channel_id) DO UPDATE SET enabled_by = excluded.enabled_by, enabled_at_ms = excluded.enabled_at_ms`,
		guildID, channelID, enabledBy, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("enable channel: %w", err)
	}
	return nil
}

// DisableChannel turns AI chat off for a channel
func (s *Store) DisableChannel(ctx context.Context, guildID, channelID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM ai_channels WHERE guild_id = ? AND channel_id = ?`, guildID, channelID)
	if err != nil {
		return fmt.Errorf("disable channel: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("disable channel: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListChannels returns enabled channels, optionally restricted to one guild
func (s *Store) ListChannels(ctx context.Context, guildID string) ([]Channel, error) {
	query := `SELECT guild_id, channel_id, enabled_by, enabled_at_ms FROM ai_channels`
	args := []any{}
	if guildID != "" {
		query += ` WHERE guild_id = ?`
		args = append(args, guildID)
	}
	query += ` ORDER BY guild_id, channel_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, *ch)
	}
	return channels, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChannel(row scanner) (*Channel, error) {
	var (
		ch        Channel
		enabledAt int64
	)
	if err := row.Scan(&ch.GuildID, &ch.ChannelID, &ch.EnabledBy, &enabledAt); err != nil {
		return nil, err
	}
	ch.EnabledAt = time.UnixMilli(enabledAt).UTC()
	return &ch, nil
}
