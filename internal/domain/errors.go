package domain

import "errors"

// Error taxonomy shared across the core. Callers classify with errors.Is;
// lower layers wrap these with fmt.Errorf("...: %w", ...) to add detail.
var (
	// ErrNotFound indicates an absent session or funnel.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDefinition indicates a funnel with zero steps or a step
	// missing its required matcher field.
	ErrInvalidDefinition = errors.New("invalid funnel definition")

	// ErrStoreUnavailable indicates a transient event store failure. It is
	// surfaced to the caller for retry at a higher layer; the core performs
	// no implicit retries.
	ErrStoreUnavailable = errors.New("event store unavailable")

	// ErrInconsistentOrdering indicates activity that is not sorted by
	// timestamp ascending.
	ErrInconsistentOrdering = errors.New("activity not in chronological order")
)
