package domain

import (
	"strings"

	"github.com/google/uuid"
)

type ReferenceKind int

const (
	RefUnknown ReferenceKind = iota
	RefOrder
	RefSubscription
	RefWithdrawal
	RefTransfer
)

func (k ReferenceKind) String() string {
	switch k {
	case RefOrder:
		return "order"
	case RefSubscription:
		return "subscription"
	case RefWithdrawal:
		return "withdrawal"
	case RefTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// IsPayout reports whether references of this kind settle through transfer events.
func (k ReferenceKind) IsPayout() bool { return k == RefWithdrawal || k == RefTransfer }

// NewReference mints a provider-facing reference: prefix + 12 hex chars.
func NewReference(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + id[:12]
}

// KindOf classifies a reference by its prefix.
func KindOf(reference string) ReferenceKind {
	switch {
	case strings.HasPrefix(reference, OrderRefPrefix):
		return RefOrder
	case strings.HasPrefix(reference, SubscriptionRefPrefix):
		return RefSubscription
	case strings.HasPrefix(reference, WithdrawalRefPrefix):
		return RefWithdrawal
	case strings.HasPrefix(reference, TransferRefPrefix):
		return RefTransfer
	default:
		return RefUnknown
	}
}
