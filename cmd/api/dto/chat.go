package dto

import "lisa/models"

// MessageDTO 는 UI 가 보관하는 대화 메시지 한 건이다.
// Content 와 Timestamp 는 필드가 빠진 경우만 거부하도록 포인터로 받는다. "" 와 0 은 유효하다.
type MessageDTO struct {
	ID        string  `json:"id" binding:"required" example:"user-1717230000000"`
	Role      string  `json:"role" binding:"required,oneof=user assistant" example:"user"`
	Content   *string `json:"content" binding:"required" example:"What is the BIOS release schedule?"`
	Timestamp *int64  `json:"timestamp" binding:"required" example:"1717230000000"`
}

type ChatRequestDTO struct {
	Message             string       `json:"message" binding:"required,min=1" example:"What is an extremophile?"`
	ConversationHistory []MessageDTO `json:"conversationHistory" binding:"omitempty,dive"`
}

// History 는 요청의 대화 기록을 도메인 메시지로 옮긴다.
func (r ChatRequestDTO) History() []models.Message {
	out := make([]models.Message, len(r.ConversationHistory))
	for i, m := range r.ConversationHistory {
		msg := models.Message{ID: m.ID, Role: models.Role(m.Role)}
		if m.Content != nil {
			msg.Content = *m.Content
		}
		if m.Timestamp != nil {
			msg.Timestamp = *m.Timestamp
		}
		out[i] = msg
	}
	return out
}

type ChatResponseDTO struct {
	Message   string `json:"message" example:"An extremophile is an organism that thrives in extreme environments."`
	Timestamp int64  `json:"timestamp" example:"1717230001234"`
}

type RAGStatusDTO struct {
	Ready        bool `json:"ready" example:"true"`
	HasDocuments bool `json:"hasDocuments" example:"true"`
}

type HealthDTO struct {
	Status string       `json:"status" example:"ok"`
	RAG    RAGStatusDTO `json:"rag"`
}
