package session_test

import (
	"strings"
	"testing"

	"github.com/rayanearaujoc/mefirstapp/internal/session"
)

func TestParsePersona(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  session.Persona
	}{
		{"Pessoal", session.PersonaPersonal},
		{"Estudante", session.PersonaStudent},
		{"Profissional", session.PersonaProfessional},
		{"estudante", session.PersonaStudent},
		{"PROFISSIONAL", session.PersonaProfessional},
		{"desconhecido", session.PersonaPersonal},
		{"", session.PersonaPersonal},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			if got := session.ParsePersona(tc.input); got != tc.want {
				t.Errorf("ParsePersona(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestInstructionDistinctPerPersona(t *testing.T) {
	t.Parallel()

	seen := make(map[string]session.Persona)
	for _, p := range session.Personas {
		instr := session.Instruction(p)
		if instr == "" {
			t.Fatalf("persona %v has no instruction", p)
		}
		if prev, dup := seen[instr]; dup {
			t.Fatalf("personas %v and %v share an instruction", prev, p)
		}
		seen[instr] = p
	}
}

func TestBuildChatPrompt(t *testing.T) {
	t.Parallel()

	log := []session.Message{
		{Role: session.RoleBot, Content: "oi"},
		{Role: session.RoleUser, Content: "olá"},
	}
	prompt := session.BuildChatPrompt(session.PersonaStudent, log)

	if !strings.HasPrefix(prompt, session.Instruction(session.PersonaStudent)) {
		t.Error("prompt must start with the persona instruction")
	}
	if !strings.Contains(prompt, "Histórico da conversa:") {
		t.Error("prompt is missing the transcript header")
	}
	if !strings.Contains(prompt, "Bot: oi\nUsuário: olá") {
		t.Errorf("prompt transcript is malformed:\n%s", prompt)
	}
}
