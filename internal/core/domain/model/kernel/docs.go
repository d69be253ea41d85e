// Package kernel provides core domain primitives for the order system.
// It implements the fundamental building blocks used throughout the
// domain model:
//
//   - UUID: a value object for entity identifiers
//   - Money: a currency-aware decimal amount with a fixed two-digit scale
//   - ExternalOrderID, ProductID: validated string identifiers from
//     upstream systems
//
// These primitives enforce their invariants at construction time and are
// immutable afterwards, making them safe for concurrent use. They are the
// only types the order aggregate builds on besides its own entities.
package kernel
