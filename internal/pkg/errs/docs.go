// Package errs provides standardized error types for the orders application.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package includes error types for the recurring failure scenarios:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value fails a validation rule
//   - ValueIsOutOfRangeError: a value is outside its allowed bounds
//   - ObjectNotFoundError: an object cannot be found
//   - DuplicateValueError: a uniqueness constraint is violated
//   - VersionConflictError: an optimistic concurrency check failed at save time
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrValueIsRequired)
//   - a struct type with fields for error details
//   - constructor functions with and without cause
//   - Error() for formatting and Unwrap() to the sentinel
//
// Callers classify errors with errors.Is against the sentinels and extract
// structured context with errors.As against the struct types. Domain-specific
// error kinds (invalid money, illegal status transitions) follow the same
// shape inside their own packages.
package errs
