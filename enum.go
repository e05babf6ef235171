package wayfarer

// Enumerable is the interface implemented by types that can only be represented by enumerable, constant values.
//
// Adding a new constant value ought to include updating the database with the same value.
type Enumerable interface {
	String() string
	Valid() error
}
