package service

// Outcome is the result of one settlement attempt.
type Outcome int

const (
	// OutcomeSettled: this call performed the transition and ledger update.
	OutcomeSettled Outcome = iota + 1
	// OutcomeAlreadySettled: someone else got there first; nothing changed.
	OutcomeAlreadySettled
	// OutcomeFailed: the provider did not confirm payment; nothing changed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSettled:
		return "settled"
	case OutcomeAlreadySettled:
		return "already_settled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Succeeded reports whether the payment is confirmed, by this call or an earlier one.
func (o Outcome) Succeeded() bool {
	return o == OutcomeSettled || o == OutcomeAlreadySettled
}
