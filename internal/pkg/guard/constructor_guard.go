// Package guard provides a defensive construction pattern for domain objects.
// Embedding a ConstructorGuard in a struct makes zero-value instances
// detectable, so value objects and commands can reject any instance that was
// not produced by its designated constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error was supplied for an unconstructed object.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having passed through its constructor.
// The zero value is "not constructed" and fails Validate.
//
// Example:
//
//	type ProductID struct {
//	    value string
//	    guard guard.ConstructorGuard
//	}
//
//	func NewProductID(value string) (ProductID, error) {
//	    if value == "" {
//	        return ProductID{}, errors.New("value is required")
//	    }
//	    return ProductID{value: value, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (p ProductID) Validate() error {
//	    return p.guard.Validate(ErrProductIDIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard in the "constructed" state.
// Constructors must assign it to the guarded struct before returning.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the guarded object was built via its constructor.
// Otherwise it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
