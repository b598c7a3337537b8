// Package access implements the tool access-control engine: tier
// resolution, usage aggregation and the check pipeline that gates every
// tool invocation.
package access

import (
	"context"

	"luminara/internal/domain/subscription"
	"luminara/internal/infrastructure/cache"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/logger"
)

// TierResolver resolves the effective subscription tier for a user.
type TierResolver interface {
	Resolve(ctx context.Context, userID uint) (subscription.Tier, error)
}

// SubscriptionTierResolver resolves the tier from the user's most recent
// usable subscription, with an optional Redis cache in front. Users without
// a usable subscription resolve to the free trial tier. Cache errors are
// treated as misses; repository errors are returned as unavailable, never
// silently mapped to a tier.
type SubscriptionTierResolver struct {
	subscriptionRepo subscription.Repository
	tierCache        cache.TierCache // nil disables caching
	logger           logger.Interface
}

func NewSubscriptionTierResolver(
	subscriptionRepo subscription.Repository,
	tierCache cache.TierCache,
	logger logger.Interface,
) *SubscriptionTierResolver {
	return &SubscriptionTierResolver{
		subscriptionRepo: subscriptionRepo,
		tierCache:        tierCache,
		logger:           logger,
	}
}

func (r *SubscriptionTierResolver) Resolve(ctx context.Context, userID uint) (subscription.Tier, error) {
	if r.tierCache != nil {
		cached, err := r.tierCache.GetTier(ctx, userID)
		if err != nil {
			// degraded cache must not take down access checks
			r.logger.Warnw("tier cache read failed, falling through to database", "user_id", userID, "error", err)
		} else if cached != nil {
			if cached.NotFound {
				return subscription.TierFreeTrial, nil
			}
			return cached.Tier, nil
		}
	}

	sub, err := r.subscriptionRepo.GetLatestUsableByUserID(ctx, userID)
	if err != nil {
		r.logger.Errorw("failed to resolve subscription tier", "user_id", userID, "error", err)
		return "", errors.NewUnavailableError("subscription lookup failed", err.Error())
	}

	if sub == nil {
		if r.tierCache != nil {
			if err := r.tierCache.SetNullMarker(ctx, userID); err != nil {
				r.logger.Warnw("failed to cache tier null marker", "user_id", userID, "error", err)
			}
		}
		return subscription.TierFreeTrial, nil
	}

	tier := sub.Plan()
	if r.tierCache != nil {
		if err := r.tierCache.SetTier(ctx, userID, tier); err != nil {
			r.logger.Warnw("failed to cache tier", "user_id", userID, "error", err)
		}
	}

	return tier, nil
}
