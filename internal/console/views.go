package console

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rayanearaujoc/mefirstapp/internal/report"
	"github.com/rayanearaujoc/mefirstapp/internal/session"
)

// handleRegistration renders the home view and processes one registration
// attempt. Empty fields warn inline and keep the session on this page.
func (c *Console) handleRegistration(ctx context.Context, s *session.Session) error {
	c.printf("\n--- %s ---\n", s.Page)
	c.printf("Desabafe sem julgamentos, estamos aqui para te auxiliar na sua jornada de autoconhecimento\n\n")

	name, err := c.readLine("Digite seu nome (ou /sair): ")
	if err != nil {
		return err
	}
	if name == "/sair" {
		return errQuit
	}

	for i, p := range session.Personas {
		c.printf("  [%d] %s\n", i+1, p)
	}
	choice, err := c.readLine("Escolha um perfil: ")
	if err != nil {
		return err
	}
	persona := personaFromChoice(choice)

	email, err := c.readLine("Digite seu melhor e-mail (ou /sair): ")
	if err != nil {
		return err
	}
	if email == "/sair" {
		return errQuit
	}

	if err := c.deps.Controller.Register(ctx, s, name, email, persona); err != nil {
		if errors.Is(err, session.ErrEmptyField) {
			c.printf("⚠ Por favor, digite seu nome e e-mail antes de iniciar.\n")
			return nil
		}
		return err
	}
	return nil
}

// personaFromChoice accepts either the list number or the persona name.
func personaFromChoice(choice string) session.Persona {
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(session.Personas) {
		return session.Personas[n-1]
	}
	return session.ParsePersona(choice)
}

// handleChat renders the transcript and processes one chat input. "/sair"
// flushes the log and moves to the profile view.
func (c *Console) handleChat(ctx context.Context, s *session.Session) error {
	if !s.HasUser() {
		c.printf("⚠ Usuário não encontrado. Por favor, inicie novamente.\n")
		s.Page = session.PageRegistration
		return nil
	}

	c.printf("\n--- %s ---\n", s.Page)
	c.printf("Olá, %s\n\n", s.UserName)
	for _, m := range s.Log {
		c.printf("%s: %s\n", m.Role, m.Content)
	}

	text, err := c.readLine("\nDigite algo (ou /sair): ")
	if err != nil {
		return err
	}
	if text == "/sair" {
		return c.deps.Controller.ExitChat(ctx, s)
	}
	if text == "" {
		return nil
	}

	reply, err := c.deps.Controller.SendMessage(ctx, s, text)
	if err != nil {
		// The session state is unchanged apart from the pending user
		// entry; the user may retry the same action.
		c.printf("⚠ %v\n", err)
		return nil
	}
	c.printf("%s: %s\n", session.RoleBot, reply)
	return nil
}

// handleProfile renders the persisted chat history and dispatches to the
// report or a new chat.
func (c *Console) handleProfile(ctx context.Context, s *session.Session) error {
	if !s.HasUser() {
		c.printf("⚠ Usuário não encontrado. Por favor, inicie novamente.\n")
		s.Page = session.PageRegistration
		return nil
	}

	c.printf("\n--- %s ---\n", s.Page)
	c.printf("Histórico de Chats:\n")

	history, err := c.deps.Controller.History(ctx, s)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		c.printf("Nenhum histórico de chats encontrado.\n")
	}
	for i, m := range history {
		c.printf("  Mensagem %d: %s\n", i+1, m.Content)
	}

	c.printf("\n  [1] Ver Insights dessas Conversas\n  [2] Novo Chat\n  [3] Sair\n")
	choice, err := c.readLine("Escolha: ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		return c.deps.Controller.ViewInsights(ctx, s)
	case "2":
		return c.deps.Controller.NewChat(s)
	case "3":
		return errQuit
	default:
		c.printf("⚠ Opção inválida.\n")
		return nil
	}
}

// handleReport generates and renders the report over the snapshotted
// history, then returns to the profile view.
func (c *Console) handleReport(ctx context.Context, s *session.Session) error {
	if !s.HasUser() {
		c.printf("⚠ Usuário não encontrado. Por favor, inicie novamente.\n")
		s.Page = session.PageRegistration
		return nil
	}

	c.printf("\n--- %s ---\n", s.Page)
	c.printf("Carregando seus resultados...\n\n")

	rep, err := c.deps.Aggregator.Generate(ctx, report.SourceHistory, s.HistoryReportInput())
	if err != nil {
		// Prior state is unchanged; returning to the profile lets the
		// user retry.
		c.printf("⚠ %v\n", err)
		s.Page = session.PageProfile
		return nil
	}

	c.renderReport(rep)
	s.Page = session.PageProfile
	return nil
}

func (c *Console) renderReport(rep *report.Report) {
	if rep.Empty() {
		c.printf("Sem mensagens para analisar ainda.\n")
		return
	}

	c.printf("%s\n\n", rep.Summary)

	c.printf("Análise de Sentimento:\n")
	for _, cat := range report.Categories {
		n := rep.Sentiment[cat]
		c.printf("  %-8s %3d %s\n", cat, n, strings.Repeat("█", n))
	}

	c.printf("\nFrequência dos Tópicos:\n")
	for _, tc := range rep.Topics {
		c.printf("  %-20s %3d %s\n", tc.Topic, tc.Count, strings.Repeat("█", tc.Count))
	}
}
