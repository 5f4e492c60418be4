package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Reference prefixes. The webhook router dispatches on these, so they are part
// of the wire format shared with the payment provider.
const (
	OrderRefPrefix        = "carty_"
	SubscriptionRefPrefix = "sub_"
	WithdrawalRefPrefix   = "wd_"
	TransferRefPrefix     = "tr_"
)

// Paystack webhook event names.
const (
	EventChargeSuccess    = "charge.success"
	EventTransferSuccess  = "transfer.success"
	EventTransferFailed   = "transfer.failed"
	EventTransferReversed = "transfer.reversed"
)

// Live feed message types pushed to sellers.
const (
	FeedOrderPaid          = "order_paid"
	FeedSubscriptionActive = "subscription_active"
	FeedWithdrawalSuccess  = "withdrawal_success"
	FeedWithdrawalFailed   = "withdrawal_failed"
)

// MinimumPayout is the smallest withdrawal or transfer, in naira.
var MinimumPayout = decimal.NewFromInt(100)

var ErrInvalidTransition = errors.New("invalid status transition")
