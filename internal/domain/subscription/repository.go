package subscription

import "context"

// Repository defines persistence operations for subscriptions. The access
// core only reads; writes happen through the billing sync use cases.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	GetByUserID(ctx context.Context, userID uint) ([]*Subscription, error)

	// GetLatestUsableByUserID returns the most recently created subscription
	// for the user whose status grants service access (active only), or nil
	// when the user has none.
	GetLatestUsableByUserID(ctx context.Context, userID uint) (*Subscription, error)
}
