package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"orders/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure orders
// follow the correct processing workflow.
//
// State transitions:
//
//	Received ──> Processing ──> Calculated ──> Available
//	    │             │              │
//	    └─────────────┴──────────────┴──> Failed
//
// Failed is additionally reachable directly from every non-terminal state
// through MarkFailed; this bypass of the transition table is a deliberate
// business rule, not part of CanTransitionTo.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Received is the initial status of an order arriving from the
	// upstream system, waiting to be processed.
	Received

	// Processing indicates the order totals are being computed.
	Processing

	// Calculated indicates the order total has been computed.
	Calculated

	// Available indicates the order is ready for downstream consumption.
	// This is the terminal success state.
	Available

	// Failed indicates processing failed. This is the terminal failure
	// state.
	Failed
)

// ErrInvalidStatusTransition is the sentinel for every illegal lifecycle
// move. Classify with errors.Is; extract the offending pair with errors.As
// against *InvalidStatusTransitionError.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// InvalidStatusTransitionError reports an attempted illegal lifecycle move
// from From to To.
type InvalidStatusTransitionError struct {
	From Status
	To   Status
}

// NewInvalidStatusTransitionError creates an InvalidStatusTransitionError
// for the given status pair.
func NewInvalidStatusTransitionError(from Status, to Status) *InvalidStatusTransitionError {
	return &InvalidStatusTransitionError{From: from, To: to}
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidStatusTransition, e.From, e.To)
}

func (e *InvalidStatusTransitionError) Unwrap() error {
	return ErrInvalidStatusTransition
}

// getStatusStrings returns a map of Status values to their string
// representations. All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Received:   "RECEIVED",
		Processing: "PROCESSING",
		Calculated: "CALCULATED",
		Available:  "AVAILABLE",
		Failed:     "FAILED",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Received:   "RECEIVED",
		Processing: "PROCESSING",
		Calculated: "CALCULATED",
		Available:  "AVAILABLE",
		Failed:     "FAILED",
	}
}

// StatusFromString parses a Status from its case-insensitive string
// representation, as carried by transports and query parameters.
func StatusFromString(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getValidStatusStrings() {
		if str == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the uppercase name of the status, or "UNKNOWN" for invalid
// values. Implements the fmt.Stringer interface.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// MarshalJSON encodes the status as its uppercase string form, the
// representation carried on every wire format.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the status from its case-insensitive string form.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := StatusFromString(raw)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

// CanTransitionTo reports whether the generic transition table allows moving
// from this status to target:
//
//	Received   -> Processing, Failed
//	Processing -> Calculated, Failed
//	Calculated -> Available, Failed
//	Available  -> (none)
//	Failed     -> (none)
//
// It is a pure function of the receiver and does not cover the MarkFailed
// override.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case Received:
		return target == Processing || target == Failed
	case Processing:
		return target == Calculated || target == Failed
	case Calculated:
		return target == Available || target == Failed
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Available || s == Failed
}

// TransitionTo returns target if the transition table allows it.
// Returns ErrInvalidStatusTransition otherwise. Used by the Order aggregate
// to enforce the lifecycle.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, NewInvalidStatusTransitionError(s, target)
	}

	return target, nil
}

// MarkFailed returns Failed from any status except Available.
// This deliberately bypasses the transition table: a failure may be recorded
// at any point before the order has been handed to downstream consumers.
func (s Status) MarkFailed() (Status, error) {
	if s == Available {
		return Unknown, NewInvalidStatusTransitionError(s, Failed)
	}

	return Failed, nil
}
