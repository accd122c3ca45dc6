package ai

import "strings"

// DefaultInstruction steers the model towards empathic replies.
const DefaultInstruction = "Instruction: given a dialog context and related knowledge, you need to response empathically."

// Role of a context turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one context entry with its author resolved.
type Turn struct {
	Role Role
	Text string
}

// BuildSystemPrompt joins the instruction with the dialog profile as knowledge.
func BuildSystemPrompt(instruction, profile string) string {
	if instruction == "" {
		instruction = DefaultInstruction
	}

	profile = strings.TrimSpace(profile)
	if profile == "" {
		return instruction
	}

	var builder strings.Builder
	builder.WriteString(instruction)
	builder.WriteString("\n\n[KNOWLEDGE] ")
	builder.WriteString(profile)
	return builder.String()
}

// SplitTurns resolves authors for a context window. The window is cut from the
// front, so it may start with either author; the last entry is always the user
// query and authors alternate backwards from it.
func SplitTurns(messages []string) (history []Turn, query string) {
	if len(messages) == 0 {
		return nil, ""
	}

	last := len(messages) - 1
	history = make([]Turn, 0, last)
	for i, text := range messages[:last] {
		role := RoleAssistant
		if (last-i)%2 == 0 {
			role = RoleUser
		}
		history = append(history, Turn{Role: role, Text: text})
	}
	return history, messages[last]
}
