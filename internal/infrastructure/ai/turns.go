package ai

import (
	"strings"

	"github.com/jhoicas/Provisiona-api/internal/application/ports"
)

// conversation arma la secuencia que se envía al modelo: turnos previos más el mensaje actual.
// Descarta turnos vacíos o de rol desconocido, elimina asistentes iniciales (la conversación
// debe empezar con el usuario) y une turnos consecutivos del mismo rol.
func conversation(history []ports.ChatTurn, message string) []ports.ChatTurn {
	all := make([]ports.ChatTurn, 0, len(history)+1)
	all = append(all, history...)
	all = append(all, ports.ChatTurn{Role: "user", Content: message})

	out := make([]ports.ChatTurn, 0, len(all))
	for _, t := range all {
		content := strings.TrimSpace(t.Content)
		if content == "" || (t.Role != "user" && t.Role != "assistant") {
			continue
		}
		if len(out) == 0 && t.Role != "user" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == t.Role {
			out[n-1].Content += "\n\n" + content
			continue
		}
		out = append(out, ports.ChatTurn{Role: t.Role, Content: content})
	}
	return out
}
