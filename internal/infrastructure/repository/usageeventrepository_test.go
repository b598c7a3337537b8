package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"luminara/internal/domain/chat"
	"luminara/internal/infrastructure/persistence/models"
	"luminara/internal/shared/logger"
)

// nopLogger is a no-op logger for testing.
type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)                   {}
func (l *nopLogger) Info(msg string, args ...any)                    {}
func (l *nopLogger) Warn(msg string, args ...any)                    {}
func (l *nopLogger) Error(msg string, args ...any)                   {}
func (l *nopLogger) With(args ...any) logger.Interface               { return l }
func (l *nopLogger) Named(name string) logger.Interface              { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.SubscriptionModel{},
		&models.ConversationModel{},
		&models.MessageModel{},
	)
	require.NoError(t, err)

	return db
}

func insertToolMessage(t *testing.T, db *gorm.DB, repo chat.MessageRepository, userID uint, toolName, toolType string, createdAt time.Time) {
	msg, err := chat.NewMessage(1, userID, chat.RoleAssistant, "result",
		&chat.ToolUsage{ToolName: toolName, ToolType: toolType})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), msg))

	// backdate the row; NewMessage always stamps now
	err = db.Model(&models.MessageModel{}).Where("id = ?", msg.ID()).
		Update("created_at", createdAt).Error
	require.NoError(t, err)
}

func TestUsageEventRepositoryCountByTool(t *testing.T) {
	db := setupTestDB(t)
	messages := NewMessageRepository(db, newNopLogger())
	usage := NewUsageEventRepository(db, newNopLogger())
	ctx := context.Background()

	dayStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// three tarot readings inside the window, one outside, one other tool,
	// one untagged chat message
	insertToolMessage(t, db, messages, 42, "tarot_reading", "reading", dayStart.Add(1*time.Hour))
	insertToolMessage(t, db, messages, 42, "tarot_reading", "reading", dayStart.Add(5*time.Hour))
	insertToolMessage(t, db, messages, 42, "tarot_reading", "reading", dayStart.Add(23*time.Hour))
	insertToolMessage(t, db, messages, 42, "tarot_reading", "reading", dayEnd.Add(1*time.Minute))
	insertToolMessage(t, db, messages, 42, "numerology", "reading", dayStart.Add(2*time.Hour))
	insertToolMessage(t, db, messages, 42, "voice_generation", "voice", dayStart.Add(3*time.Hour))

	plain, err := chat.NewMessage(1, 42, chat.RoleUser, "hello", nil)
	require.NoError(t, err)
	require.NoError(t, messages.Create(ctx, plain))

	t.Run("counts only the named tool inside the window", func(t *testing.T) {
		count, err := usage.CountByTool(ctx, 42, "tarot_reading", dayStart, dayEnd)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("window end is exclusive", func(t *testing.T) {
		count, err := usage.CountByTool(ctx, 42, "tarot_reading", dayStart, dayStart.Add(23*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("other users are not counted", func(t *testing.T) {
		count, err := usage.CountByTool(ctx, 99, "tarot_reading", dayStart, dayEnd)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("counts by tool type across tools", func(t *testing.T) {
		count, err := usage.CountByType(ctx, 42, "reading", dayStart, dayEnd)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("counts every tool-tagged message", func(t *testing.T) {
		count, err := usage.CountAllTools(ctx, 42, dayStart, dayEnd)
		require.NoError(t, err)
		// all tool messages in the window, plain chat excluded
		assert.Equal(t, 5, count)
	})
}

func TestUsageEventRepositoryCountConversations(t *testing.T) {
	db := setupTestDB(t)
	conversations := NewConversationRepository(db, newNopLogger())
	usage := NewUsageEventRepository(db, newNopLogger())
	ctx := context.Background()

	dayStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	for i := 0; i < 3; i++ {
		conv, err := chat.NewConversation(42, "t")
		require.NoError(t, err)
		require.NoError(t, conversations.Create(ctx, conv))
		err = db.Model(&models.ConversationModel{}).Where("id = ?", conv.ID()).
			Update("created_at", dayStart.Add(time.Duration(i)*time.Hour)).Error
		require.NoError(t, err)
	}

	count, err := usage.CountConversations(ctx, 42, dayStart, dayEnd)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = usage.CountConversations(ctx, 42, dayEnd, dayEnd.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestConversationRepositoryRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db, newNopLogger())
	ctx := context.Background()

	conv, err := chat.NewConversation(7, "Dream journal")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, conv))
	assert.NotZero(t, conv.ID())

	found, err := repo.GetBySID(ctx, conv.SID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Dream journal", found.Title())

	conv.RecordMessage()
	require.NoError(t, repo.Update(ctx, conv))

	found, err = repo.GetBySID(ctx, conv.SID())
	require.NoError(t, err)
	assert.Equal(t, 1, found.MessageCount())

	t.Run("missing SID returns nil", func(t *testing.T) {
		found, err := repo.GetBySID(ctx, "conv_missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
