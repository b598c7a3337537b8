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

type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ConversationMapper
	logger logger.Interface
}

func NewConversationRepository(db *gorm.DB, logger logger.Interface) chat.ConversationRepository {
	return &ConversationRepositoryImpl{
		db:     db,
		mapper: mappers.NewConversationMapper(),
		logger: logger,
	}
}

func (r *ConversationRepositoryImpl) Create(ctx context.Context, conversation *chat.Conversation) error {
	model := r.mapper.ToModel(conversation)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create conversation", "user_id", model.UserID, "error", err)
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	conversation.SetID(model.ID)
	return nil
}

func (r *ConversationRepositoryImpl) Update(ctx context.Context, conversation *chat.Conversation) error {
	model := r.mapper.ToModel(conversation)

	result := r.db.WithContext(ctx).Model(&models.ConversationModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"title":         model.Title,
			"message_count": model.MessageCount,
			"archived":      model.Archived,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update conversation", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update conversation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("conversation not found: %d", model.ID)
	}

	return nil
}

func (r *ConversationRepositoryImpl) GetBySID(ctx context.Context, sid string) (*chat.Conversation, error) {
	var model models.ConversationModel

	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get conversation by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

func (r *ConversationRepositoryImpl) ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*chat.Conversation, error) {
	var conversationModels []*models.ConversationModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&conversationModels).Error; err != nil {
		r.logger.Errorw("failed to list conversations", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	return r.mapper.ToEntities(conversationModels), nil
}
