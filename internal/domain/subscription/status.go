package subscription

type Status string

const (
	StatusActive    Status = "active"
	StatusTrialing  Status = "trialing"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
	StatusPaused    Status = "paused"
)

func (s Status) String() string {
	return string(s)
}

// CanUseService reports whether a subscription in this status grants its
// tier's privileges. Only an active subscription does; trialing, past-due,
// cancelled and paused holders fall back to the free trial tier.
func (s Status) CanUseService() bool {
	return s == StatusActive
}

func (s Status) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusTrialing:  {StatusActive, StatusCancelled},
		StatusActive:    {StatusPastDue, StatusCancelled, StatusPaused},
		StatusPastDue:   {StatusActive, StatusCancelled},
		StatusPaused:    {StatusActive, StatusCancelled},
		StatusCancelled: {},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[Status]bool{
	StatusActive:    true,
	StatusTrialing:  true,
	StatusPastDue:   true,
	StatusCancelled: true,
	StatusPaused:    true,
}

// UsableStatuses lists the statuses whose subscriptions count when resolving
// a user's effective tier.
var UsableStatuses = []Status{StatusActive}
