package console_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rayanearaujoc/mefirstapp/internal/console"
	"github.com/rayanearaujoc/mefirstapp/internal/database"
	"github.com/rayanearaujoc/mefirstapp/internal/language"
	"github.com/rayanearaujoc/mefirstapp/internal/report"
	"github.com/rayanearaujoc/mefirstapp/internal/session"
)

type fakeStore struct {
	nextID   int64
	users    map[string]int64
	messages map[int64][]database.Message
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:   1,
		users:    make(map[string]int64),
		messages: make(map[int64][]database.Message),
	}
}

func (s *fakeStore) Ping(context.Context) error           { return nil }
func (s *fakeStore) RunMaintenance(context.Context) error { return nil }

func (s *fakeStore) RegisterUser(_ context.Context, username, email string) (int64, error) {
	id := s.nextID
	s.nextID++
	s.users[username+"\x00"+email] = id
	return id, nil
}

func (s *fakeStore) FindUser(_ context.Context, username, email string) (int64, error) {
	if id, ok := s.users[username+"\x00"+email]; ok {
		return id, nil
	}
	return 0, database.ErrUserNotFound
}

func (s *fakeStore) AppendMessage(_ context.Context, userID int64, content string) error {
	s.messages[userID] = append(s.messages[userID], database.Message{
		ID:        int64(len(s.messages[userID]) + 1),
		UserID:    userID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

func (s *fakeStore) ListMessages(_ context.Context, userID int64) ([]database.Message, error) {
	return s.messages[userID], nil
}

type fakeGen struct{ reply string }

func (g *fakeGen) Generate(context.Context, string) (string, error) { return g.reply, nil }

type fakeAnalyzer struct{ score float32 }

func (a *fakeAnalyzer) Analyze(_ context.Context, text string) (*language.Analysis, error) {
	return &language.Analysis{
		Sentiment: language.Sentiment{Score: a.score},
		Entities:  []language.Entity{{Name: "provas", Category: "OTHER"}},
	}, nil
}

func (a *fakeAnalyzer) Close() error { return nil }

// runScript drives a console over scripted input lines and returns the
// rendered output.
func runScript(t *testing.T, lines ...string) string {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newFakeStore()
	gen := &fakeGen{reply: "Entendo. Quer me contar mais sobre isso?"}

	deps := console.Deps{
		Logger:     log,
		Controller: session.NewController(store, gen, "Sinta-se à vontade para desabafar.", log),
		Aggregator: report.NewAggregator(&fakeAnalyzer{score: -0.6}, &fakeGen{reply: "Resumo: provas.\nRecomendação: pausas."}, log),
	}

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	c := console.New(deps, in, &out)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v\noutput:\n%s", err, out.String())
	}
	return out.String()
}

func TestFullJourney(t *testing.T) {
	t.Parallel()

	out := runScript(t,
		"Ana",                         // nome
		"2",                           // perfil Estudante
		"ana@x.com",                   // e-mail
		"estou estressada com provas", // chat
		"/sair",                       // encerra o chat
		"1",                           // ver insights
		"3",                           // sair do perfil
	)

	for _, want := range []string{
		"Sinta-se à vontade para desabafar.",
		"Olá, Ana",
		"Bot: Entendo. Quer me contar mais sobre isso?",
		"Mensagem 1: estou estressada com provas",
		"Resumo: provas.",
		"Negativo",
		"provas",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestRegistrationRejectsEmptyFields(t *testing.T) {
	t.Parallel()

	out := runScript(t,
		"Ana",   // nome
		"1",     // perfil
		"",      // e-mail vazio
		"/sair", // de volta na home, encerra
	)

	if !strings.Contains(out, "⚠ Por favor, digite seu nome e e-mail antes de iniciar.") {
		t.Errorf("missing inline validation warning\noutput:\n%s", out)
	}
	if strings.Contains(out, "Olá, Ana") {
		t.Error("chat view must not be reached after a failed registration")
	}
}

func TestQuitFromEmailPrompt(t *testing.T) {
	t.Parallel()

	out := runScript(t,
		"Ana",   // nome
		"1",     // perfil
		"/sair", // desiste no prompt de e-mail
	)

	if strings.Contains(out, "Olá, Ana") {
		t.Error("quitting at the e-mail prompt must not register a user")
	}
	if strings.Contains(out, "⚠") {
		t.Errorf("no warning expected when quitting\noutput:\n%s", out)
	}
}

func TestQuitFromHome(t *testing.T) {
	t.Parallel()
	out := runScript(t, "/sair")
	if !strings.Contains(out, "=== MeFirst ===") {
		t.Errorf("banner not rendered\noutput:\n%s", out)
	}
}

func TestEndOfInputEndsCleanly(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := console.Deps{
		Logger:     log,
		Controller: session.NewController(newFakeStore(), &fakeGen{reply: "oi"}, "oi", log),
		Aggregator: report.NewAggregator(&fakeAnalyzer{}, &fakeGen{reply: "resumo"}, log),
	}

	var out bytes.Buffer
	c := console.New(deps, strings.NewReader(""), &out)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run on exhausted input must end cleanly, got %v", err)
	}
}

func TestProfileEmptyHistory(t *testing.T) {
	t.Parallel()

	out := runScript(t,
		"Ana",       // nome
		"1",         // perfil
		"ana@x.com", // e-mail
		"/sair",     // sai do chat sem conversar
		"3",         // sai do perfil
	)

	if !strings.Contains(out, "Nenhum histórico de chats encontrado.") {
		t.Errorf("missing empty-history notice\noutput:\n%s", out)
	}
}
