package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"luminara/internal/domain/chat"
	"luminara/internal/infrastructure/persistence/mappers"
	"luminara/internal/infrastructure/persistence/models"
	"luminara/internal/shared/logger"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MessageMapper
	logger logger.Interface
}

func NewMessageRepository(db *gorm.DB, logger logger.Interface) chat.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mappers.NewMessageMapper(),
		logger: logger,
	}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *chat.Message) error {
	model, err := r.mapper.ToModel(message)
	if err != nil {
		r.logger.Errorw("failed to map message entity to model", "error", err)
		return fmt.Errorf("failed to map message entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create message", "conversation_id", model.ConversationID, "error", err)
		return fmt.Errorf("failed to create message: %w", err)
	}

	message.SetID(model.ID)
	return nil
}

func (r *MessageRepositoryImpl) ListByConversationID(ctx context.Context, conversationID uint, limit, offset int) ([]*chat.Message, error) {
	var messageModels []*models.MessageModel

	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&messageModels).Error; err != nil {
		r.logger.Errorw("failed to list messages", "conversation_id", conversationID, "error", err)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return r.mapper.ToEntities(messageModels)
}
