package domain

import "fmt"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
)

// Complete is the only order transition: pending -> completed.
func (s OrderStatus) Complete() (OrderStatus, error) {
	if s != OrderPending {
		return s, fmt.Errorf("order %s -> %s: %w", s, OrderCompleted, ErrInvalidTransition)
	}
	return OrderCompleted, nil
}

func (s OrderStatus) IsTerminal() bool { return s == OrderCompleted }

type WithdrawalStatus string

const (
	WithdrawalPending WithdrawalStatus = "pending"
	WithdrawalSuccess WithdrawalStatus = "success"
	WithdrawalFailed  WithdrawalStatus = "failed"
)

// Resolve moves a pending withdrawal to success or failed. Terminal states
// never move again.
func (s WithdrawalStatus) Resolve(succeeded bool) (WithdrawalStatus, error) {
	next := WithdrawalFailed
	if succeeded {
		next = WithdrawalSuccess
	}
	if s != WithdrawalPending {
		return s, fmt.Errorf("withdrawal %s -> %s: %w", s, next, ErrInvalidTransition)
	}
	return next, nil
}

func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalSuccess || s == WithdrawalFailed
}

type SubscriptionStatus string

const (
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionActive   SubscriptionStatus = "active"
)
