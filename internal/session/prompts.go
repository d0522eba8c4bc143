package session

import (
	"fmt"
	"strings"
)

// personaInstructions maps each persona to its instruction block. The chat
// prompt is the instruction followed by the full role-prefixed transcript.
var personaInstructions = map[Persona]string{
	PersonaPersonal: "Você é um chatbot que simula um psicólogo. Seu objetivo é fazer com que o usuário se sinta ouvido e ajudado. " +
		"Pergunte ao usuário como ele está se sentindo hoje e peça para ele falar sobre seus sentimentos e emoções. " +
		"Envie mensagens de apoio e comandos de escrita que ajudem o usuário a trabalhar seus sentimentos. " +
		"Mantenha uma conversa acolhedora e formal. Responda de forma concisa.",

	PersonaStudent: "Você é um chatbot que simula um psicólogo e está conversando com um estudante. " +
		"Pergunte ao usuário como ele está se sentindo em relação aos estudos. " +
		"Faça perguntas sobre como ele está lidando com as pressões acadêmicas e sociais. " +
		"Envie mensagens de apoio e comandos de escrita que ajudem o usuário a refletir sobre suas experiências escolares. " +
		"Mantenha uma conversa acolhedora e formal. Responda de forma concisa.",

	PersonaProfessional: "Você é um chatbot que simula um psicólogo e está conversando com um profissional. " +
		"Pergunte ao usuário como ele está se sentindo no trabalho e peça para ele falar sobre seus desafios e preocupações profissionais. " +
		"Faça perguntas que ajudem a explorar como ele está lidando com o ambiente de trabalho e as expectativas. " +
		"Envie mensagens de apoio e comandos de escrita que ajudem o usuário a refletir sobre suas experiências no trabalho. " +
		"Mantenha uma conversa acolhedora e formal. Responda de forma concisa.",
}

// ParsePersona maps a persona name to its enum value. Unknown names fall
// back to the personal persona, the session default.
func ParsePersona(name string) Persona {
	for _, p := range Personas {
		if strings.EqualFold(string(p), name) {
			return p
		}
	}
	return PersonaPersonal
}

// Instruction returns the instruction block for the persona. Unknown
// personas use the personal template.
func Instruction(p Persona) string {
	if instr, ok := personaInstructions[p]; ok {
		return instr
	}
	return personaInstructions[PersonaPersonal]
}

// BuildChatPrompt concatenates the persona instruction with the whole
// session transcript as role-prefixed lines.
func BuildChatPrompt(p Persona, log []Message) string {
	var sb strings.Builder
	sb.WriteString(Instruction(p))
	sb.WriteString("\n\nHistórico da conversa:\n")
	for i, m := range log {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s: %s", m.Role, m.Content)
	}
	return sb.String()
}
