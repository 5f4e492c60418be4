// Package webhook authenticates Paystack webhook deliveries and decodes them
// into settlement events.
package webhook

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"
)

// SignatureHeader carries hex(HMAC-SHA512(secret, body)).
const SignatureHeader = "x-paystack-signature"

type State int

const (
	Unverified State = iota
	Verified
	Rejected
)

func (s State) String() string {
	switch s {
	case Verified:
		return "verified"
	case Rejected:
		return "rejected"
	default:
		return "unverified"
	}
}

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrNotVerified      = errors.New("webhook payload not verified")
)

type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Payload is a raw delivery together with its authentication state.
type Payload struct {
	state State
	raw   []byte
}

// NewPayload wraps raw bytes as an Unverified payload.
func NewPayload(raw []byte) *Payload {
	return &Payload{state: Unverified, raw: raw}
}

func (p *Payload) State() State { return p.state }

func (p *Payload) Raw() []byte { return p.raw }

// Authenticate moves p out of Unverified. The HMAC is computed over the exact
// bytes received; an empty secret rejects everything.
func (a *Authenticator) Authenticate(p *Payload, signature string) error {
	if p.state != Unverified {
		if p.state == Verified {
			return nil
		}
		return ErrInvalidSignature
	}
	if len(a.secret) == 0 || signature == "" {
		p.state = Rejected
		return ErrInvalidSignature
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		p.state = Rejected
		return ErrInvalidSignature
	}
	mac := hmac.New(sha512.New, a.secret)
	mac.Write(p.raw)
	if !hmac.Equal(mac.Sum(nil), got) {
		p.state = Rejected
		return ErrInvalidSignature
	}
	p.state = Verified
	return nil
}

// Sign returns the signature Paystack would send for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
