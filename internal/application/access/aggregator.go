package access

import (
	"context"
	"time"

	"luminara/internal/domain/chat"
	"luminara/internal/shared/biztime"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/logger"
)

// UsageAggregator counts committed tool usage inside business-timezone
// calendar windows. All windows are half-open [start, end); the end
// boundary doubles as the quota reset instant.
type UsageAggregator struct {
	usageRepo chat.UsageEventRepository
	logger    logger.Interface
}

func NewUsageAggregator(usageRepo chat.UsageEventRepository, logger logger.Interface) *UsageAggregator {
	return &UsageAggregator{usageRepo: usageRepo, logger: logger}
}

// CountToolDay returns the user's invocation count for a tool in the
// calendar day containing now, plus the window end.
func (a *UsageAggregator) CountToolDay(ctx context.Context, userID uint, toolName string, now time.Time) (int, time.Time, error) {
	start, end := biztime.DayWindowUTC(now)
	count, err := a.usageRepo.CountByTool(ctx, userID, toolName, start, end)
	if err != nil {
		a.logger.Errorw("daily usage count failed", "user_id", userID, "tool", toolName, "error", err)
		return 0, end, errors.NewUnavailableError("usage history lookup failed", err.Error())
	}
	return count, end, nil
}

// CountToolMonth returns the user's invocation count for a tool in the
// calendar month containing now, plus the window end.
func (a *UsageAggregator) CountToolMonth(ctx context.Context, userID uint, toolName string, now time.Time) (int, time.Time, error) {
	start, end := biztime.MonthWindowUTC(now)
	count, err := a.usageRepo.CountByTool(ctx, userID, toolName, start, end)
	if err != nil {
		a.logger.Errorw("monthly usage count failed", "user_id", userID, "tool", toolName, "error", err)
		return 0, end, errors.NewUnavailableError("usage history lookup failed", err.Error())
	}
	return count, end, nil
}

// CountTypeDay returns the user's invocation count for a tool category in
// the calendar day containing now.
func (a *UsageAggregator) CountTypeDay(ctx context.Context, userID uint, toolType string, now time.Time) (int, time.Time, error) {
	start, end := biztime.DayWindowUTC(now)
	count, err := a.usageRepo.CountByType(ctx, userID, toolType, start, end)
	if err != nil {
		a.logger.Errorw("daily type usage count failed", "user_id", userID, "tool_type", toolType, "error", err)
		return 0, end, errors.NewUnavailableError("usage history lookup failed", err.Error())
	}
	return count, end, nil
}

// CountTypeMonth returns the user's invocation count for a tool category in
// the calendar month containing now.
func (a *UsageAggregator) CountTypeMonth(ctx context.Context, userID uint, toolType string, now time.Time) (int, time.Time, error) {
	start, end := biztime.MonthWindowUTC(now)
	count, err := a.usageRepo.CountByType(ctx, userID, toolType, start, end)
	if err != nil {
		a.logger.Errorw("monthly type usage count failed", "user_id", userID, "tool_type", toolType, "error", err)
		return 0, end, errors.NewUnavailableError("usage history lookup failed", err.Error())
	}
	return count, end, nil
}

// CountAllToolsDay returns the user's total tool invocation count across all
// tools in the calendar day containing now.
func (a *UsageAggregator) CountAllToolsDay(ctx context.Context, userID uint, now time.Time) (int, time.Time, error) {
	start, end := biztime.DayWindowUTC(now)
	count, err := a.usageRepo.CountAllTools(ctx, userID, start, end)
	if err != nil {
		a.logger.Errorw("daily total usage count failed", "user_id", userID, "error", err)
		return 0, end, errors.NewUnavailableError("usage history lookup failed", err.Error())
	}
	return count, end, nil
}

// CountAllToolsMonth returns the user's total tool invocation count across
// all tools in the calendar month containing now.
func (a *UsageAggregator) CountAllToolsMonth(ctx context.Context, userID uint, now time.Time) (int, time.Time, error) {
	start, end := biztime.MonthWindowUTC(now)
	count, err := a.usageRepo.CountAllTools(ctx, userID, start, end)
	if err != nil {
		a.logger.Errorw("monthly total usage count failed", "user_id", userID, "error", err)
		return 0, end, errors.NewUnavailableError("usage history lookup failed", err.Error())
	}
	return count, end, nil
}

// CountConversationsDay returns how many conversations the user started in
// the calendar day containing now.
func (a *UsageAggregator) CountConversationsDay(ctx context.Context, userID uint, now time.Time) (int, time.Time, error) {
	start, end := biztime.DayWindowUTC(now)
	count, err := a.usageRepo.CountConversations(ctx, userID, start, end)
	if err != nil {
		a.logger.Errorw("conversation count failed", "user_id", userID, "error", err)
		return 0, end, errors.NewUnavailableError("usage history lookup failed", err.Error())
	}
	return count, end, nil
}
