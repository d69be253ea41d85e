// Package order provides domain entities and business logic for order
// management. It implements the Order aggregate root with lifecycle management,
// total calculation and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, items, total and lifecycle
//   - OrderItem: An immutable line item with a derived subtotal
//   - Status: A state machine that enforces valid order status transitions
//
// Key business rules:
//   - Orders must have a valid unique identifier and a unique external order id
//   - Items can only be added while the order is in Received status
//   - The total is always the sum of item subtotals in a single currency
//   - Order status follows a defined workflow:
//     Received -> Processing -> Calculated -> Available,
//     with Failed reachable from any state except Available
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
