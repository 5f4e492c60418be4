package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderStatusComplete(t *testing.T) {
	next, err := OrderPending.Complete()
	require.NoError(t, err)
	require.Equal(t, OrderCompleted, next)
	require.True(t, next.IsTerminal())

	_, err = OrderCompleted.Complete()
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestWithdrawalStatusResolve(t *testing.T) {
	next, err := WithdrawalPending.Resolve(true)
	require.NoError(t, err)
	require.Equal(t, WithdrawalSuccess, next)

	next, err = WithdrawalPending.Resolve(false)
	require.NoError(t, err)
	require.Equal(t, WithdrawalFailed, next)

	for _, s := range []WithdrawalStatus{WithdrawalSuccess, WithdrawalFailed} {
		require.True(t, s.IsTerminal())
		_, err := s.Resolve(true)
		require.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestReferences(t *testing.T) {
	ref := NewReference(OrderRefPrefix)
	require.Len(t, ref, len(OrderRefPrefix)+12)
	require.NotEqual(t, ref, NewReference(OrderRefPrefix))

	cases := map[string]ReferenceKind{
		"carty_abc123abc123": RefOrder,
		"sub_abc123abc123":   RefSubscription,
		"wd_abc123abc123":    RefWithdrawal,
		"tr_abc123abc123":    RefTransfer,
		"xyz":                RefUnknown,
	}
	for ref, want := range cases {
		require.Equal(t, want, KindOf(ref), ref)
	}
	require.True(t, RefWithdrawal.IsPayout())
	require.True(t, RefTransfer.IsPayout())
	require.False(t, RefOrder.IsPayout())
	require.Equal(t, "subscription", RefSubscription.String())
}
