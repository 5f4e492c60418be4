package webhook

import (
	"encoding/json"
	"fmt"

	"carty/internal/domain"
)

// Event is one of OrderSettlement, SubscriptionSettlement, TransferOutcome or
// Unhandled.
type Event interface {
	Reference() string
	isEvent()
}

type OrderSettlement struct {
	Ref        string
	AmountKobo int64
}

type SubscriptionSettlement struct {
	Ref string
}

type TransferOutcome struct {
	Ref       string
	Succeeded bool
	Reason    string
}

// Unhandled is a verified event this service does not act on.
type Unhandled struct {
	Name string
	Ref  string
}

func (e OrderSettlement) Reference() string        { return e.Ref }
func (e SubscriptionSettlement) Reference() string { return e.Ref }
func (e TransferOutcome) Reference() string        { return e.Ref }
func (e Unhandled) Reference() string              { return e.Ref }

func (OrderSettlement) isEvent()        {}
func (SubscriptionSettlement) isEvent() {}
func (TransferOutcome) isEvent()        {}
func (Unhandled) isEvent()              {}

type envelope struct {
	Event string `json:"event"`
	Data  struct {
		Reference       string `json:"reference"`
		Amount          int64  `json:"amount"`
		Status          string `json:"status"`
		GatewayResponse string `json:"gateway_response"`
	} `json:"data"`
}

// Decode parses a Verified payload. The reference prefix selects the variant.
func (p *Payload) Decode() (string, Event, error) {
	if p.state != Verified {
		return "", nil, ErrNotVerified
	}
	var env envelope
	if err := json.Unmarshal(p.raw, &env); err != nil {
		return "", nil, fmt.Errorf("decode webhook: %w", err)
	}
	ref := env.Data.Reference
	kind := domain.KindOf(ref)
	switch env.Event {
	case domain.EventChargeSuccess:
		switch kind {
		case domain.RefOrder:
			return env.Event, OrderSettlement{Ref: ref, AmountKobo: env.Data.Amount}, nil
		case domain.RefSubscription:
			return env.Event, SubscriptionSettlement{Ref: ref}, nil
		}
	case domain.EventTransferSuccess:
		if kind.IsPayout() {
			return env.Event, TransferOutcome{Ref: ref, Succeeded: true}, nil
		}
	case domain.EventTransferFailed, domain.EventTransferReversed:
		if kind.IsPayout() {
			reason := env.Data.GatewayResponse
			if reason == "" {
				reason = env.Event
			}
			return env.Event, TransferOutcome{Ref: ref, Succeeded: false, Reason: reason}, nil
		}
	}
	return env.Event, Unhandled{Name: env.Event, Ref: ref}, nil
}
