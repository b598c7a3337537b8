// Package billing holds the use cases on the payment-processor boundary.
// The access core never writes subscription state; all writes funnel
// through here.
package billing

import (
	"context"
	"time"

	"luminara/internal/domain/subscription"
	"luminara/internal/domain/user"
	"luminara/internal/infrastructure/cache"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/logger"
)

// SyncSubscriptionCommand mirrors one webhook event from the payment
// processor. The processor is authoritative for plan and status.
type SyncSubscriptionCommand struct {
	UserSID         string
	SubscriptionSID string
	Plan            string
	Status          string
	PeriodStart     time.Time
	PeriodEnd       time.Time
}

// EmailNotifier sends billing lifecycle notifications. Delivery failures
// are logged, never propagated: the subscription state is already synced.
type EmailNotifier interface {
	SendSubscriptionChangedEmail(to, planName string) error
	SendPaymentFailedEmail(to string) error
}

type SyncSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	userRepo         user.Repository
	tierCache        cache.TierCache // nil disables invalidation
	notifier         EmailNotifier   // nil disables notifications
	logger           logger.Interface
}

func NewSyncSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	userRepo user.Repository,
	tierCache cache.TierCache,
	notifier EmailNotifier,
	logger logger.Interface,
) *SyncSubscriptionUseCase {
	return &SyncSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		tierCache:        tierCache,
		notifier:         notifier,
		logger:           logger,
	}
}

// Execute upserts the subscription named by the command and invalidates the
// user's cached tier so the next access check sees the new plan.
func (uc *SyncSubscriptionUseCase) Execute(ctx context.Context, cmd SyncSubscriptionCommand) error {
	plan, err := subscription.ParseTier(cmd.Plan)
	if err != nil {
		return errors.NewValidationError("unknown plan: " + cmd.Plan)
	}

	status := subscription.Status(cmd.Status)
	if !subscription.ValidStatuses[status] {
		return errors.NewValidationError("unknown status: " + cmd.Status)
	}

	usr, err := uc.userRepo.GetBySID(ctx, cmd.UserSID)
	if err != nil {
		return errors.NewInternalError("failed to look up user", err.Error())
	}
	if usr == nil {
		return errors.NewNotFoundError("user not found: " + cmd.UserSID)
	}

	sub, err := uc.subscriptionRepo.GetBySID(ctx, cmd.SubscriptionSID)
	if err != nil {
		return errors.NewInternalError("failed to look up subscription", err.Error())
	}

	planChanged := false
	if sub == nil {
		sub, err = subscription.NewSubscription(cmd.SubscriptionSID, usr.ID(), plan, cmd.PeriodStart, cmd.PeriodEnd)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := sub.SyncStatus(status); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
			return errors.NewInternalError("failed to create subscription", err.Error())
		}
		planChanged = true
	} else {
		planChanged = sub.Plan() != plan
		if err := sub.ChangePlan(plan, cmd.PeriodStart, cmd.PeriodEnd); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := sub.SyncStatus(status); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			return errors.NewInternalError("failed to update subscription", err.Error())
		}
	}

	if uc.tierCache != nil {
		if err := uc.tierCache.InvalidateTier(ctx, usr.ID()); err != nil {
			// next check may see a stale tier until the TTL expires
			uc.logger.Warnw("failed to invalidate tier cache after billing sync",
				"user_id", usr.ID(), "error", err)
		}
	}

	uc.notify(usr, plan, status, planChanged)

	uc.logger.Infow("subscription synced",
		"subscription_sid", cmd.SubscriptionSID,
		"user_id", usr.ID(),
		"plan", plan,
		"status", status)
	return nil
}

func (uc *SyncSubscriptionUseCase) notify(usr *user.User, plan subscription.Tier, status subscription.Status, planChanged bool) {
	if uc.notifier == nil {
		return
	}

	if status == subscription.StatusPastDue {
		if err := uc.notifier.SendPaymentFailedEmail(usr.Email()); err != nil {
			uc.logger.Warnw("failed to send payment failed email", "user_id", usr.ID(), "error", err)
		}
		return
	}

	if planChanged {
		if err := uc.notifier.SendSubscriptionChangedEmail(usr.Email(), plan.DisplayName()); err != nil {
			uc.logger.Warnw("failed to send subscription changed email", "user_id", usr.ID(), "error", err)
		}
	}
}
