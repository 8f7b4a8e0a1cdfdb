package tappay

import (
	"errors"
	"fmt"
)

// ErrGatewayUnavailable indicates a transport-level failure (timeout,
// connection refused, malformed reply) while talking to the processor.
// The charge may or may not have happened remotely; local state must be
// left untouched and the caller may retry later.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// DeclinedError is an explicit business rejection from the processor
// (non-zero TapPay status). It is terminal for the given prime and must
// never be retried automatically.
type DeclinedError struct {
	Status int
	Msg    string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("payment declined (status %d): %s", e.Status, e.Msg)
}

// Contact holds cardholder details forwarded to the processor
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Result is a successful charge outcome
type Result struct {
	Status     int
	Msg        string
	RecTradeID string
}

// Gateway charges one-time payment primes. Charge is a blocking network
// call with a bounded timeout; implementations must distinguish transport
// failures (ErrGatewayUnavailable) from business declines (*DeclinedError)
// and must not retry on their own, since a charge is not idempotent.
type Gateway interface {
	Charge(prime string, amount int, details string, contact Contact) (*Result, error)
}
