package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"luminara/internal/domain/subscription"
	"luminara/internal/domain/user"
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

// recordingNotifier captures sent notifications.
type recordingNotifier struct {
	changed []string
	failed  []string
}

func (n *recordingNotifier) SendSubscriptionChangedEmail(to, planName string) error {
	n.changed = append(n.changed, to+":"+planName)
	return nil
}

func (n *recordingNotifier) SendPaymentFailedEmail(to string) error {
	n.failed = append(n.failed, to)
	return nil
}

func setupSync(t *testing.T) (*SyncSubscriptionUseCase, subscription.Repository, *recordingNotifier) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}, &models.SubscriptionModel{}))

	log := newNopLogger()
	userRepo := repository.NewUserRepository(db, log)
	subRepo := repository.NewSubscriptionRepository(db, log)

	usr, err := user.NewUser("usr_sync", "seeker@example.com", "Seeker", "hash")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(context.Background(), usr))

	notifier := &recordingNotifier{}
	uc := NewSyncSubscriptionUseCase(subRepo, userRepo, nil, notifier, log)
	return uc, subRepo, notifier
}

func syncCommand(plan, status string) SyncSubscriptionCommand {
	now := time.Now().UTC()
	return SyncSubscriptionCommand{
		UserSID:         "usr_sync",
		SubscriptionSID: "sub_sync",
		Plan:            plan,
		Status:          status,
		PeriodStart:     now,
		PeriodEnd:       now.AddDate(0, 1, 0),
	}
}

func TestSyncSubscriptionCreates(t *testing.T) {
	uc, subRepo, notifier := setupSync(t)
	ctx := context.Background()

	require.NoError(t, uc.Execute(ctx, syncCommand("seeker", "active")))

	sub, err := subRepo.GetBySID(ctx, "sub_sync")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, subscription.TierSeeker, sub.Plan())
	assert.Equal(t, subscription.StatusActive, sub.Status())
	assert.Len(t, notifier.changed, 1)
}

func TestSyncSubscriptionUpgrades(t *testing.T) {
	uc, subRepo, notifier := setupSync(t)
	ctx := context.Background()

	require.NoError(t, uc.Execute(ctx, syncCommand("seeker", "active")))
	require.NoError(t, uc.Execute(ctx, syncCommand("master", "active")))

	sub, err := subRepo.GetBySID(ctx, "sub_sync")
	require.NoError(t, err)
	assert.Equal(t, subscription.TierMaster, sub.Plan())
	assert.Len(t, notifier.changed, 2)

	t.Run("same plan does not renotify", func(t *testing.T) {
		require.NoError(t, uc.Execute(ctx, syncCommand("master", "active")))
		assert.Len(t, notifier.changed, 2)
	})
}

func TestSyncSubscriptionPastDue(t *testing.T) {
	uc, subRepo, notifier := setupSync(t)
	ctx := context.Background()

	require.NoError(t, uc.Execute(ctx, syncCommand("adept", "active")))
	require.NoError(t, uc.Execute(ctx, syncCommand("adept", "past_due")))

	sub, err := subRepo.GetBySID(ctx, "sub_sync")
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusPastDue, sub.Status())
	assert.False(t, sub.IsUsable())
	assert.Len(t, notifier.failed, 1)
}

func TestSyncSubscriptionValidation(t *testing.T) {
	uc, _, _ := setupSync(t)
	ctx := context.Background()

	t.Run("unknown plan rejected", func(t *testing.T) {
		err := uc.Execute(ctx, syncCommand("platinum", "active"))
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		err := uc.Execute(ctx, syncCommand("seeker", "limbo"))
		assert.Error(t, err)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		cmd := syncCommand("seeker", "active")
		cmd.UserSID = "usr_ghost"
		err := uc.Execute(ctx, cmd)
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}
