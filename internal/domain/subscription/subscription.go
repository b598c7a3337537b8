package subscription

import (
	"fmt"
	"time"
)

// Subscription represents the subscription aggregate root. It is written by
// the billing sync process and only ever read by the access-control core.
type Subscription struct {
	id                 uint
	sid                string
	userID             uint
	plan               Tier
	status             Status
	currentPeriodStart time.Time
	currentPeriodEnd   time.Time
	createdAt          time.Time
	updatedAt          time.Time
}

// NewSubscription creates a new subscription starting in trialing status.
func NewSubscription(sid string, userID uint, plan Tier, periodStart, periodEnd time.Time) (*Subscription, error) {
	if sid == "" {
		return nil, fmt.Errorf("subscription SID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !plan.Valid() {
		return nil, fmt.Errorf("invalid subscription tier: %s", plan)
	}
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("period end must be after period start")
	}

	now := time.Now().UTC()
	return &Subscription{
		sid:                sid,
		userID:             userID,
		plan:               plan,
		status:             StatusTrialing,
		currentPeriodStart: periodStart,
		currentPeriodEnd:   periodEnd,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// ReconstructSubscription reconstructs a subscription from persistence.
func ReconstructSubscription(
	id uint,
	sid string,
	userID uint,
	plan Tier,
	status Status,
	currentPeriodStart, currentPeriodEnd time.Time,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !plan.Valid() {
		return nil, fmt.Errorf("invalid subscription tier: %s", plan)
	}
	if !ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	return &Subscription{
		id:                 id,
		sid:                sid,
		userID:             userID,
		plan:               plan,
		status:             status,
		currentPeriodStart: currentPeriodStart,
		currentPeriodEnd:   currentPeriodEnd,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (s *Subscription) ID() uint                      { return s.id }
func (s *Subscription) SID() string                   { return s.sid }
func (s *Subscription) UserID() uint                  { return s.userID }
func (s *Subscription) Plan() Tier                    { return s.plan }
func (s *Subscription) Status() Status                { return s.status }
func (s *Subscription) CurrentPeriodStart() time.Time { return s.currentPeriodStart }
func (s *Subscription) CurrentPeriodEnd() time.Time   { return s.currentPeriodEnd }
func (s *Subscription) CreatedAt() time.Time          { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time          { return s.updatedAt }

// SetID assigns the persistence-generated ID once.
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IsUsable reports whether the subscription currently grants its tier.
func (s *Subscription) IsUsable() bool {
	return s.status.CanUseService()
}

// Activate transitions the subscription into active status.
func (s *Subscription) Activate() error {
	return s.transition(StatusActive)
}

// Cancel transitions the subscription into cancelled status.
func (s *Subscription) Cancel() error {
	return s.transition(StatusCancelled)
}

// MarkPastDue transitions the subscription into past-due status.
func (s *Subscription) MarkPastDue() error {
	return s.transition(StatusPastDue)
}

// Pause transitions the subscription into paused status.
func (s *Subscription) Pause() error {
	return s.transition(StatusPaused)
}

func (s *Subscription) transition(target Status) error {
	if s.status == target {
		return nil
	}
	if !s.status.CanTransitionTo(target) {
		return fmt.Errorf("cannot transition subscription from %s to %s", s.status, target)
	}
	s.status = target
	s.updatedAt = time.Now().UTC()
	return nil
}

// ChangePlan updates the plan and billing period, used by the billing sync
// when the payment processor reports a plan change.
func (s *Subscription) ChangePlan(plan Tier, periodStart, periodEnd time.Time) error {
	if !plan.Valid() {
		return fmt.Errorf("invalid subscription tier: %s", plan)
	}
	if periodEnd.Before(periodStart) {
		return fmt.Errorf("period end must be after period start")
	}
	s.plan = plan
	s.currentPeriodStart = periodStart
	s.currentPeriodEnd = periodEnd
	s.updatedAt = time.Now().UTC()
	return nil
}

// SyncStatus force-sets the status from a billing webhook payload. Unlike
// the transition methods it accepts any valid status, because the payment
// processor is authoritative.
func (s *Subscription) SyncStatus(status Status) error {
	if !ValidStatuses[status] {
		return fmt.Errorf("invalid subscription status: %s", status)
	}
	s.status = status
	s.updatedAt = time.Now().UTC()
	return nil
}
