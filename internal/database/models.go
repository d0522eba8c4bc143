package database

import "time"

// User identifies a registered user. The id is assigned by the store and
// never changes; the (username, email) pair is matched byte-exactly on
// lookup, with no normalization.
type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Email    string `db:"email"`
}

// Message is one persisted user-authored chat message. Only user messages
// are ever written; assistant replies live only in the session log.
type Message struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Content   string    `db:"content"`
	Timestamp time.Time `db:"timestamp"`
}
