package schema

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one message in a session's conversation log.
// Content is a pointer because assistant turns may be appended before
// their text has been generated.
type ChatTurn struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
	Name    string  `json:"name,omitempty"`
}

// NewChatTurn builds a turn with resolved content.
func NewChatTurn(role, content string) ChatTurn {
	return ChatTurn{Role: role, Content: &content}
}

// ChatState is the per-session cache entry: the ordered turn log plus the
// cached model parameters needed for token budgeting. The first turn, when
// present, is the immutable system turn.
type ChatState struct {
	SessionID       string     `json:"session_id"`
	Turns           []ChatTurn `json:"turns"`
	Model           string     `json:"model"`
	MaxInputTokens  int        `json:"max_input_tokens"`
	MaxOutputTokens int        `json:"max_output_tokens"`
}
