package models

// Role 은 대화 메시지의 발화 주체다.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 는 UI 세션에 쌓이는 대화 메시지 한 건이다. 생성 후 변경하지 않는다.
// Timestamp 는 epoch millis 이다.
type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// PromptMessage 는 LLM chat completion 요청에 실리는 메시지 한 건이다.
type PromptMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// RecentMessages 는 history 중 가장 최근 n 개를 원래 순서대로 반환한다.
// 반환 슬라이스는 history 와 메모리를 공유하지 않는다.
func RecentMessages(history []Message, n int) []Message {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]Message, len(history))
	copy(out, history)
	return out
}

// ToPromptMessages 는 대화 메시지를 role/content 형태 그대로 프롬프트 메시지로 옮긴다.
func ToPromptMessages(history []Message) []PromptMessage {
	out := make([]PromptMessage, 0, len(history))
	for _, m := range history {
		out = append(out, PromptMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
