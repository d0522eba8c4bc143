// Package session implements the conversation state machine: one explicit
// session context object per active user, mutated only by the Controller in
// response to user actions.
package session

import (
	"github.com/google/uuid"

	"github.com/rayanearaujoc/mefirstapp/internal/database"
)

// Page identifies the view a session is currently on.
type Page int

const (
	PageRegistration Page = iota
	PageChat
	PageProfile
	PageReport
)

// String returns the display name of the page.
func (p Page) String() string {
	switch p {
	case PageRegistration:
		return "Home"
	case PageChat:
		return "ChatBot"
	case PageProfile:
		return "Meu Perfil"
	case PageReport:
		return "Relatório"
	default:
		return "unknown"
	}
}

// Persona selects which instruction template drives the chat replies.
type Persona string

const (
	PersonaPersonal     Persona = "Pessoal"
	PersonaStudent      Persona = "Estudante"
	PersonaProfessional Persona = "Profissional"
)

// Personas lists the selectable personas in display order.
var Personas = []Persona{PersonaPersonal, PersonaStudent, PersonaProfessional}

// Role distinguishes who authored a session log entry.
type Role string

const (
	RoleUser Role = "Usuário"
	RoleBot  Role = "Bot"
)

// Message is one entry of the in-memory session log. Entries are immutable
// once appended; only RoleUser entries are ever flushed to the store.
type Message struct {
	Role    Role
	Content string
}

// Session is the transient, process-local state of one active user session.
// It is created empty at session start and discarded at session end; it is
// never persisted and never shared between sessions.
type Session struct {
	ID       string
	Page     Page
	UserID   int64
	UserName string
	Persona  Persona

	// Log is the in-memory conversation, not yet flushed.
	Log []Message

	// History caches the persisted messages loaded when entering the
	// report from the profile view.
	History []database.Message
}

// NewSession creates a fresh session at the registration page with the
// default persona and an empty log.
func NewSession() *Session {
	return &Session{
		ID:      uuid.NewString(),
		Page:    PageRegistration,
		Persona: PersonaPersonal,
	}
}

// HasUser reports whether a user has been attached to the session.
func (s *Session) HasUser() bool {
	return s.UserID != 0
}
