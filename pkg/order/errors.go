package order

import "errors"

// Failure classes of the order workflow. Handlers match on these with
// errors.Is to pick a response status; the wrapped message keeps the
// identifiers needed for manual reconciliation.
var (
	// ErrValidation: malformed or empty input, rejected before any side effect.
	ErrValidation = errors.New("invalid order input")

	// ErrNotFound: the referenced cart or order does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPaymentGateway: the payment service was unreachable or refused the
	// charge. The cart written before the call stays in place.
	ErrPaymentGateway = errors.New("payment gateway failure")

	// ErrStorage: a relational or document store operation failed.
	ErrStorage = errors.New("storage failure")

	// ErrConfiguration: expected seed data is missing. A deployment defect,
	// not a runtime condition worth retrying.
	ErrConfiguration = errors.New("configuration defect")
)
