package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"luminara/internal/domain/chat"
	"luminara/internal/infrastructure/persistence/models"
)

type ConversationMapper interface {
	ToEntity(model *models.ConversationModel) *chat.Conversation
	ToModel(entity *chat.Conversation) *models.ConversationModel
	ToEntities(models []*models.ConversationModel) []*chat.Conversation
}

type conversationMapper struct{}

func NewConversationMapper() ConversationMapper {
	return &conversationMapper{}
}

func (m *conversationMapper) ToEntity(model *models.ConversationModel) *chat.Conversation {
	if model == nil {
		return nil
	}
	return chat.ReconstructConversation(
		model.ID,
		model.SID,
		model.UserID,
		model.Title,
		model.MessageCount,
		model.Archived,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *conversationMapper) ToModel(entity *chat.Conversation) *models.ConversationModel {
	if entity == nil {
		return nil
	}
	return &models.ConversationModel{
		ID:           entity.ID(),
		SID:          entity.SID(),
		UserID:       entity.UserID(),
		Title:        entity.Title(),
		MessageCount: entity.MessageCount(),
		Archived:     entity.Archived(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

func (m *conversationMapper) ToEntities(conversationModels []*models.ConversationModel) []*chat.Conversation {
	entities := make([]*chat.Conversation, 0, len(conversationModels))
	for _, model := range conversationModels {
		entities = append(entities, m.ToEntity(model))
	}
	return entities
}

// messageMetadata is the JSON shape stored in the message metadata column.
type messageMetadata struct {
	ToolUsage *chat.ToolUsage `json:"tool_usage,omitempty"`
}

type MessageMapper interface {
	ToEntity(model *models.MessageModel) (*chat.Message, error)
	ToModel(entity *chat.Message) (*models.MessageModel, error)
	ToEntities(models []*models.MessageModel) ([]*chat.Message, error)
}

type messageMapper struct{}

func NewMessageMapper() MessageMapper {
	return &messageMapper{}
}

func (m *messageMapper) ToEntity(model *models.MessageModel) (*chat.Message, error) {
	if model == nil {
		return nil, nil
	}

	var meta messageMetadata
	if model.Metadata != nil {
		if err := json.Unmarshal(model.Metadata, &meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message metadata: %w", err)
		}
	}

	return chat.ReconstructMessage(
		model.ID,
		model.SID,
		model.ConversationID,
		model.UserID,
		chat.MessageRole(model.Role),
		model.Content,
		meta.ToolUsage,
		model.CreatedAt,
	), nil
}

func (m *messageMapper) ToModel(entity *chat.Message) (*models.MessageModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadata datatypes.JSON
	if entity.ToolUsage() != nil {
		raw, err := json.Marshal(messageMetadata{ToolUsage: entity.ToolUsage()})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message metadata: %w", err)
		}
		metadata = raw
	}

	return &models.MessageModel{
		ID:             entity.ID(),
		SID:            entity.SID(),
		ConversationID: entity.ConversationID(),
		UserID:         entity.UserID(),
		Role:           string(entity.Role()),
		Content:        entity.Content(),
		Metadata:       metadata,
		CreatedAt:      entity.CreatedAt(),
	}, nil
}

func (m *messageMapper) ToEntities(messageModels []*models.MessageModel) ([]*chat.Message, error) {
	entities := make([]*chat.Message, 0, len(messageModels))
	for _, model := range messageModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
