package assistant

import "eatery/internal/llm"

var allowedRoles = map[string]bool{
	llm.RoleUser:     true,
	llm.RoleModel:    true,
	llm.RoleFunction: true,
}

// SanitizeHistory drops client-supplied messages with an unknown role or no
// usable parts. Surviving messages keep their order.
func SanitizeHistory(history []llm.Content) []llm.Content {
	out := make([]llm.Content, 0, len(history))
	for _, msg := range history {
		if !allowedRoles[msg.Role] {
			continue
		}

		parts := make([]llm.Part, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			if !p.IsEmpty() {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}

		out = append(out, llm.Content{Role: msg.Role, Parts: parts})
	}
	return out
}
