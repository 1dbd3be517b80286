package payment

// Repository persists gateway payments and user-saved payment methods, both
// stored in the payments table.
type Repository interface {
	CreateForOrder(p Payment) (Payment, error)

	// ListByUser returns gateway payments for orders owned by the user,
	// newest first, each with its order attached.
	ListByUser(userID int) ([]Payment, error)
	ListAll() ([]Payment, error)

	// Saved payment methods (order-independent).
	ListMethods(userID int) ([]Payment, error)
	AddMethod(p Payment) (Payment, error)
	RemoveMethod(userID, id int) error

	// SetDefault clears is_default on every method of the user and sets it
	// on the given one, atomically: callers never observe two defaults.
	SetDefault(userID, id int) error
}
