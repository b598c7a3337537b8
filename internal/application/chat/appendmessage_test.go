package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	accessapp "luminara/internal/application/access"
	"luminara/internal/domain/access"
	"luminara/internal/domain/chat"
	"luminara/internal/domain/subscription"
	"luminara/internal/infrastructure/persistence/models"
	"luminara/internal/infrastructure/repository"
	"luminara/internal/shared/errors"
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

type fixedTierResolver struct {
	tier subscription.Tier
}

func (r *fixedTierResolver) Resolve(ctx context.Context, userID uint) (subscription.Tier, error) {
	return r.tier, nil
}

type chatFixture struct {
	start  *StartConversationUseCase
	append *AppendMessageUseCase
}

func setupChat(t *testing.T, tier subscription.Tier) *chatFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ConversationModel{}, &models.MessageModel{}))

	log := newNopLogger()
	conversations := repository.NewConversationRepository(db, log)
	messages := repository.NewMessageRepository(db, log)
	usage := repository.NewUsageEventRepository(db, log)

	resolver := &fixedTierResolver{tier: tier}
	aggregator := accessapp.NewUsageAggregator(usage, log)
	accessService := accessapp.NewToolAccessService(
		access.DefaultTable(), access.DefaultCheckers(), resolver, aggregator, log)

	return &chatFixture{
		start:  NewStartConversationUseCase(conversations, resolver, aggregator, log),
		append: NewAppendMessageUseCase(conversations, messages, accessService, resolver, log),
	}
}

func TestStartConversationQuota(t *testing.T) {
	ctx := context.Background()
	f := setupChat(t, subscription.TierFreeTrial)

	// free trial allows 3 conversations per day
	for i := 0; i < 3; i++ {
		conv, err := f.start.Execute(ctx, StartConversationCommand{UserID: 1, Title: "t"})
		require.NoError(t, err)
		assert.NotNil(t, conv)
	}

	_, err := f.start.Execute(ctx, StartConversationCommand{UserID: 1, Title: "t"})
	require.Error(t, err)
	assert.True(t, errors.IsForbiddenError(err))

	t.Run("other users unaffected", func(t *testing.T) {
		conv, err := f.start.Execute(ctx, StartConversationCommand{UserID: 2, Title: "t"})
		require.NoError(t, err)
		assert.NotNil(t, conv)
	})
}

func TestAppendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("plain message appended and counted", func(t *testing.T) {
		f := setupChat(t, subscription.TierSeeker)
		conv, err := f.start.Execute(ctx, StartConversationCommand{UserID: 1, Title: "t"})
		require.NoError(t, err)

		msg, denial, err := f.append.Execute(ctx, AppendMessageCommand{
			UserID:          1,
			ConversationSID: conv.SID(),
			Role:            chat.RoleUser,
			Content:         "what do my dreams mean?",
		})
		require.NoError(t, err)
		assert.Nil(t, denial)
		require.NotNil(t, msg)
		assert.Nil(t, msg.ToolUsage())
	})

	t.Run("tool usage is enforced and recorded", func(t *testing.T) {
		f := setupChat(t, subscription.TierFreeTrial)
		conv, err := f.start.Execute(ctx, StartConversationCommand{UserID: 1, Title: "t"})
		require.NoError(t, err)

		// free trial allows 2 numerology reports per day
		for i := 0; i < 2; i++ {
			msg, denial, err := f.append.Execute(ctx, AppendMessageCommand{
				UserID:          1,
				ConversationSID: conv.SID(),
				Role:            chat.RoleAssistant,
				Content:         "your number is 7",
				ToolName:        access.ToolNumerology,
				ToolType:        access.ToolTypeReading,
			})
			require.NoError(t, err)
			require.Nil(t, denial)
			require.NotNil(t, msg.ToolUsage())
		}

		msg, denial, err := f.append.Execute(ctx, AppendMessageCommand{
			UserID:          1,
			ConversationSID: conv.SID(),
			Role:            chat.RoleAssistant,
			Content:         "your number is 7",
			ToolName:        access.ToolNumerology,
			ToolType:        access.ToolTypeReading,
		})
		require.NoError(t, err)
		assert.Nil(t, msg)
		require.NotNil(t, denial)
		assert.False(t, denial.Allowed)
		require.NotNil(t, denial.CurrentUsage)
		assert.Equal(t, 2, *denial.CurrentUsage)
	})

	t.Run("tier denial carries upgrade prompt", func(t *testing.T) {
		f := setupChat(t, subscription.TierFreeTrial)
		conv, err := f.start.Execute(ctx, StartConversationCommand{UserID: 1, Title: "t"})
		require.NoError(t, err)

		msg, denial, err := f.append.Execute(ctx, AppendMessageCommand{
			UserID:          1,
			ConversationSID: conv.SID(),
			Role:            chat.RoleAssistant,
			Content:         "interpreting...",
			ToolName:        access.ToolDreamInterpreter,
			ToolType:        access.ToolTypeReading,
		})
		require.NoError(t, err)
		assert.Nil(t, msg)
		require.NotNil(t, denial)
		assert.Equal(t, subscription.TierSeeker, denial.UpgradeRequired)
	})

	t.Run("foreign conversation rejected", func(t *testing.T) {
		f := setupChat(t, subscription.TierSeeker)
		conv, err := f.start.Execute(ctx, StartConversationCommand{UserID: 1, Title: "t"})
		require.NoError(t, err)

		_, _, err = f.append.Execute(ctx, AppendMessageCommand{
			UserID:          2,
			ConversationSID: conv.SID(),
			Role:            chat.RoleUser,
			Content:         "hi",
		})
		require.Error(t, err)
		assert.True(t, errors.IsForbiddenError(err))
	})

	t.Run("missing conversation rejected", func(t *testing.T) {
		f := setupChat(t, subscription.TierSeeker)

		_, _, err := f.append.Execute(ctx, AppendMessageCommand{
			UserID:          1,
			ConversationSID: "conv_ghost",
			Role:            chat.RoleUser,
			Content:         "hi",
		})
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("length limit enforced", func(t *testing.T) {
		f := setupChat(t, subscription.TierFreeTrial)
		conv, err := f.start.Execute(ctx, StartConversationCommand{UserID: 1, Title: "t"})
		require.NoError(t, err)

		// free trial caps conversations at 20 messages
		for i := 0; i < 20; i++ {
			_, _, err := f.append.Execute(ctx, AppendMessageCommand{
				UserID:          1,
				ConversationSID: conv.SID(),
				Role:            chat.RoleUser,
				Content:         "hello",
			})
			require.NoError(t, err)
		}

		_, _, err = f.append.Execute(ctx, AppendMessageCommand{
			UserID:          1,
			ConversationSID: conv.SID(),
			Role:            chat.RoleUser,
			Content:         "one more",
		})
		require.Error(t, err)
		assert.True(t, errors.IsForbiddenError(err))
	})
}
