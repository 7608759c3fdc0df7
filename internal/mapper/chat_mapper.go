package mapper

import (
	"chatbot-be/internal/entity"
	"chatbot-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	messages := make([]entity.ChatMessage, len(s.Messages))
	for i, msg := range s.Messages {
		messages[i] = entity.ChatMessage{Role: msg.Role, Content: msg.Content}
	}

	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Messages:  messages,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Summary:   m.SummaryToEntity(s.Summary),
	}
}

// ChatSessionToModel never carries the summary; summaries are written through their own repository.
func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	messages := make(datatypes.JSONSlice[model.ChatMessage], len(s.Messages))
	for i, msg := range s.Messages {
		messages[i] = model.ChatMessage{Role: msg.Role, Content: msg.Content}
	}

	return &model.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Messages:  messages,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Summary Mappers

func (m *ChatMapper) SummaryToEntity(s *model.Summary) *entity.Summary {
	if s == nil {
		return nil
	}
	return &entity.Summary{
		Id:            s.Id,
		ChatSessionId: s.ChatSessionId,
		UserId:        s.UserId,
		Text:          s.SummaryData.Data().Summary,
		CreatedAt:     s.CreatedAt,
	}
}

func (m *ChatMapper) SummaryToModel(s *entity.Summary) *model.Summary {
	if s == nil {
		return nil
	}
	return &model.Summary{
		Id:            s.Id,
		ChatSessionId: s.ChatSessionId,
		UserId:        s.UserId,
		SummaryData:   datatypes.NewJSONType(model.SummaryData{Summary: s.Text}),
		CreatedAt:     s.CreatedAt,
	}
}
