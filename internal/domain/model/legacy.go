package model

// LegacyCustomer is a read-only customer record from the legacy AdventureWorks store.
type LegacyCustomer struct {
	CustomerID   int64
	FirstName    string
	LastName     string
	Phone        string
	EmailAddress string
	PasswordHash string
	PasswordSalt string
}
