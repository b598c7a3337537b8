// Package chat holds the conversation use cases. They sit in front of the
// access engine: starting conversations and appending tool messages are
// the two writes that quota aggregation later counts.
package chat

import (
	"context"
	"fmt"
	"time"

	accessapp "luminara/internal/application/access"
	"luminara/internal/domain/chat"
	"luminara/internal/domain/subscription"
	"luminara/internal/shared/biztime"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/logger"
)

// StartConversationCommand creates a new conversation for a user.
type StartConversationCommand struct {
	UserID uint
	Title  string
}

type StartConversationUseCase struct {
	conversationRepo chat.ConversationRepository
	resolver         accessapp.TierResolver
	aggregator       *accessapp.UsageAggregator
	logger           logger.Interface
	now              func() time.Time
}

func NewStartConversationUseCase(
	conversationRepo chat.ConversationRepository,
	resolver accessapp.TierResolver,
	aggregator *accessapp.UsageAggregator,
	logger logger.Interface,
) *StartConversationUseCase {
	return &StartConversationUseCase{
		conversationRepo: conversationRepo,
		resolver:         resolver,
		aggregator:       aggregator,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// WithClock overrides the time source, for tests.
func (uc *StartConversationUseCase) WithClock(now func() time.Time) *StartConversationUseCase {
	uc.now = now
	return uc
}

// Execute creates a conversation, enforcing the tier's daily conversation
// quota first.
func (uc *StartConversationUseCase) Execute(ctx context.Context, cmd StartConversationCommand) (*chat.Conversation, error) {
	tier, err := uc.resolver.Resolve(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	limits := subscription.LimitsFor(tier)
	if limits.ConversationsPerDay != subscription.Unlimited {
		count, resetsAt, err := uc.aggregator.CountConversationsDay(ctx, cmd.UserID, uc.now())
		if err != nil {
			return nil, err
		}
		if count >= limits.ConversationsPerDay {
			uc.logger.Infow("conversation denied by daily quota",
				"user_id", cmd.UserID, "count", count, "limit", limits.ConversationsPerDay)
			return nil, errors.NewForbiddenError(
				fmt.Sprintf("daily conversation limit of %d reached, resets at %s",
					limits.ConversationsPerDay, resetsAt.Format(time.RFC3339)))
		}
	}

	conversation, err := chat.NewConversation(cmd.UserID, cmd.Title)
	if err != nil {
		return nil, err
	}

	if err := uc.conversationRepo.Create(ctx, conversation); err != nil {
		return nil, errors.NewInternalError("failed to create conversation", err.Error())
	}

	return conversation, nil
}
