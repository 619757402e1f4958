package models

// Customer entity. MemberSince is assigned by the remote store at creation
// time and is never part of the create payload.
type Customer struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	MemberSince string `json:"memberSince"`
}

// NewCustomer is the caller-supplied create payload. MemberSince is
// deliberately absent: the server stamps it.
type NewCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
