package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"luminara/internal/domain/chat"
	"luminara/internal/infrastructure/persistence/models"
	"luminara/internal/shared/logger"
)

// UsageEventRepositoryImpl counts tool usage from persisted message history.
// Counts run against committed rows only, so two requests racing past the
// same quota boundary may both pass; the next request observes both and is
// denied. That drift is bounded and accepted.
type UsageEventRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUsageEventRepository(db *gorm.DB, logger logger.Interface) chat.UsageEventRepository {
	return &UsageEventRepositoryImpl{db: db, logger: logger}
}

func (r *UsageEventRepositoryImpl) CountByTool(ctx context.Context, userID uint, toolName string, start, end time.Time) (int, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&models.MessageModel{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Where(datatypes.JSONQuery("metadata").Equals(toolName, "tool_usage", "tool_name")).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count tool usage", "user_id", userID, "tool", toolName, "error", err)
		return 0, fmt.Errorf("failed to count tool usage: %w", err)
	}

	return int(count), nil
}

func (r *UsageEventRepositoryImpl) CountByType(ctx context.Context, userID uint, toolType string, start, end time.Time) (int, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&models.MessageModel{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Where(datatypes.JSONQuery("metadata").Equals(toolType, "tool_usage", "tool_type")).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count usage by type", "user_id", userID, "tool_type", toolType, "error", err)
		return 0, fmt.Errorf("failed to count usage by type: %w", err)
	}

	return int(count), nil
}

func (r *UsageEventRepositoryImpl) CountAllTools(ctx context.Context, userID uint, start, end time.Time) (int, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&models.MessageModel{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Where(datatypes.JSONQuery("metadata").HasKey("tool_usage", "tool_name")).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count total tool usage", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to count total tool usage: %w", err)
	}

	return int(count), nil
}

func (r *UsageEventRepositoryImpl) CountConversations(ctx context.Context, userID uint, start, end time.Time) (int, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&models.ConversationModel{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count conversations", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}

	return int(count), nil
}
