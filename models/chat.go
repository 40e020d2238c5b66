package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
