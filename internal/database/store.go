package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrUserNotFound is returned by FindUser when no user matches the given
// (username, email) pair.
var ErrUserNotFound = errors.New("user not found")

// Store defines the interface for database operations. Methods accept
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RegisterUser inserts a new user row and returns the assigned id.
	RegisterUser(ctx context.Context, username, email string) (int64, error)

	// FindUser returns the id of the first user matching the exact
	// (username, email) pair, or ErrUserNotFound.
	FindUser(ctx context.Context, username, email string) (int64, error)

	// AppendMessage inserts one user-authored message with a
	// store-assigned timestamp. Fails if the user does not exist.
	AppendMessage(ctx context.Context, userID int64, content string) error

	// ListMessages returns all messages for the user ordered by timestamp
	// ascending. Empty slice if none.
	ListMessages(ctx context.Context, userID int64) ([]Message, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RegisterUser inserts a new user row and returns the assigned id. The
// caller is responsible for non-empty checks; no uniqueness is enforced
// beyond first-writer-wins on lookup.
func (s *sqlxStore) RegisterUser(ctx context.Context, username, email string) (int64, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email) VALUES (?, ?)`, username, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error registering user", "username", username, "error", err)
		return 0, fmt.Errorf("failed to register user %q: %w", username, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		s.logger.ErrorContext(ctx, "Could not retrieve id of registered user", "username", username, "error", err)
		return 0, fmt.Errorf("failed to retrieve id for user %q: %w", username, err)
	}

	s.logger.DebugContext(ctx, "User registered", "user_id", id, "username", username)
	return id, nil
}

// FindUser looks up a user by exact (username, email) match. When duplicate
// rows exist, the first by insertion order wins.
func (s *sqlxStore) FindUser(ctx context.Context, username, email string) (int64, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	var id int64
	query := `SELECT id FROM users WHERE username = ? AND email = ? ORDER BY id LIMIT 1`

	err := s.db.GetContext(ctx, &id, query, username, email)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No user found", "username", username)
		return 0, ErrUserNotFound

	case err != nil:
		s.logger.ErrorContext(ctx, "Error finding user", "username", username, "error", err)
		return 0, fmt.Errorf("failed to find user %q: %w", username, err)
	}

	s.logger.DebugContext(ctx, "User found", "user_id", id, "username", username)
	return id, nil
}

// AppendMessage inserts one user-authored message. The timestamp is
// assigned here, monotonically non-decreasing within a user because all
// writes go through the single connection.
func (s *sqlxStore) AppendMessage(ctx context.Context, userID int64, content string) error {
	if userID == 0 {
		return fmt.Errorf("message must have a non-zero user_id")
	}
	if content == "" {
		return fmt.Errorf("message must have non-empty content")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	message := &Message{
		UserID:    userID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	query := `INSERT INTO messages (user_id, content, timestamp) VALUES (:user_id, :content, :timestamp)`
	result, err := s.db.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "user_id", userID, "error", err)
		return fmt.Errorf("failed to save message for user %d: %w", userID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		message.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message",
			"user_id", userID, "error", err)
	}

	s.logger.DebugContext(ctx, "Message saved successfully", "user_id", userID, "message_id", message.ID)
	return nil
}

// ListMessages retrieves every message for the user in ascending timestamp
// order, with the insertion id as tiebreaker so same-second writes keep
// their append order.
func (s *sqlxStore) ListMessages(ctx context.Context, userID int64) ([]Message, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	messages := []Message{}
	query := `
        SELECT id, user_id, content, timestamp
        FROM messages
        WHERE user_id = ?
        ORDER BY timestamp ASC, id ASC;
    `

	err := s.db.SelectContext(ctx, &messages, query, userID)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching messages",
			"user_id", userID, "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing messages", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list messages for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Fetched messages successfully", "user_id", userID, "count", len(messages))
	return messages, nil
}

// RunMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
