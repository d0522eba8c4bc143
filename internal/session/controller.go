package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rayanearaujoc/mefirstapp/internal/database"
	"github.com/rayanearaujoc/mefirstapp/internal/gemini"
)

var (
	// ErrEmptyField is reported inline when registration is submitted
	// with an empty name or email; no transition occurs.
	ErrEmptyField = errors.New("name and email are required")

	// ErrNoUser is reported when a user-gated view is entered without a
	// valid session user. The user must restart from registration.
	ErrNoUser = errors.New("user not found, please start again")
)

// Controller mediates all session state transitions. It owns no state
// itself; every operation takes the session it acts on.
type Controller struct {
	store    database.Store
	gen      gemini.Client
	greeting string
	log      *slog.Logger
}

// NewController creates a controller over the given store and generator.
// greeting is the synthetic opening line seeded into empty chats.
func NewController(store database.Store, gen gemini.Client, greeting string, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		store:    store,
		gen:      gen,
		greeting: greeting,
		log:      log.With("component", "session_controller"),
	}
}

// Register handles the registration form submit. It validates the input,
// finds or registers the user, records the persona choice, and moves the
// session to the chat page. Lookup precedes insertion, so re-registering
// with the same exact pair reuses the existing user id.
func (c *Controller) Register(ctx context.Context, s *Session, name, email string, persona Persona) error {
	if name == "" || email == "" {
		return ErrEmptyField
	}

	userID, err := c.store.FindUser(ctx, name, email)
	if errors.Is(err, database.ErrUserNotFound) {
		userID, err = c.store.RegisterUser(ctx, name, email)
	}
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	s.UserID = userID
	s.UserName = name
	s.Persona = persona
	s.Page = PageChat
	c.ensureGreeting(s)

	c.log.InfoContext(ctx, "Session registered", "session_id", s.ID, "user_id", userID, "persona", persona)
	return nil
}

// ensureGreeting seeds the synthetic opening line whenever a chat view is
// entered with an empty log.
func (c *Controller) ensureGreeting(s *Session) {
	if len(s.Log) == 0 {
		s.Log = append(s.Log, Message{Role: RoleBot, Content: c.greeting})
	}
}

// SendMessage handles one user chat input: it appends the user entry,
// builds the persona prompt over the whole transcript, issues one
// generation call, and appends the reply. On a generation failure the user
// entry stays in the log so the user may retry the same action.
func (c *Controller) SendMessage(ctx context.Context, s *Session, text string) (string, error) {
	if !s.HasUser() {
		return "", ErrNoUser
	}
	if text == "" {
		return "", fmt.Errorf("message is empty")
	}

	c.ensureGreeting(s)
	s.Log = append(s.Log, Message{Role: RoleUser, Content: text})

	prompt := BuildChatPrompt(s.Persona, s.Log)
	reply, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	s.Log = append(s.Log, Message{Role: RoleBot, Content: reply})
	c.log.DebugContext(ctx, "Chat exchange completed", "session_id", s.ID, "log_len", len(s.Log))
	return reply, nil
}

// ExitChat flushes all user-authored entries of the in-memory log to the
// store in order, clears the log, and moves the session to the profile
// page. Bot entries are never persisted.
func (c *Controller) ExitChat(ctx context.Context, s *Session) error {
	if !s.HasUser() {
		return ErrNoUser
	}

	flushed := 0
	for _, m := range s.Log {
		if m.Role != RoleUser {
			continue
		}
		if err := c.store.AppendMessage(ctx, s.UserID, m.Content); err != nil {
			return fmt.Errorf("failed to flush session log: %w", err)
		}
		flushed++
	}

	s.Log = nil
	s.Page = PageProfile

	c.log.InfoContext(ctx, "Chat exited, session log flushed", "session_id", s.ID, "messages_flushed", flushed)
	return nil
}

// History returns the full persisted message history for the session user,
// oldest first.
func (c *Controller) History(ctx context.Context, s *Session) ([]database.Message, error) {
	if !s.HasUser() {
		return nil, ErrNoUser
	}
	return c.store.ListMessages(ctx, s.UserID)
}

// ViewInsights snapshots the persisted history into the session cache and
// moves the session to the report page.
func (c *Controller) ViewInsights(ctx context.Context, s *Session) error {
	if !s.HasUser() {
		return ErrNoUser
	}

	history, err := c.store.ListMessages(ctx, s.UserID)
	if err != nil {
		return fmt.Errorf("failed to load history for report: %w", err)
	}

	s.History = history
	s.Page = PageReport
	return nil
}

// NewChat clears the in-memory log and moves the session back to the chat
// page; the greeting is reseeded.
func (c *Controller) NewChat(s *Session) error {
	if !s.HasUser() {
		return ErrNoUser
	}

	s.Log = nil
	s.Page = PageChat
	c.ensureGreeting(s)
	return nil
}

// SessionReportInput returns the contents the report should analyze when
// reached without a profile snapshot: only the current unflushed
// user-authored entries.
func (s *Session) SessionReportInput() []string {
	var contents []string
	for _, m := range s.Log {
		if m.Role == RoleUser {
			contents = append(contents, m.Content)
		}
	}
	return contents
}

// HistoryReportInput returns the contents the report should analyze when
// reached through the profile view: the snapshotted persisted history.
func (s *Session) HistoryReportInput() []string {
	var contents []string
	for _, m := range s.History {
		contents = append(contents, m.Content)
	}
	return contents
}
