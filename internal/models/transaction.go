package models

// TransactionType discriminates income from expense entries.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Transaction is an append-only ledger entry. ProductName and CustomerName
// are denormalized snapshots taken at sale time for income entries; they do
// not track later edits or deletions of the product or customer they came
// from.
type Transaction struct {
	ID           int             `json:"id"`
	Type         TransactionType `json:"type"`
	Description  string          `json:"description"`
	Amount       float64         `json:"amount"`
	Date         string          `json:"date"`
	ProductName  string          `json:"productName,omitempty"`
	CustomerName string          `json:"customerName,omitempty"`
}

// NewTransaction is the caller-supplied create payload.
type NewTransaction struct {
	Type         TransactionType `json:"type"`
	Description  string          `json:"description"`
	Amount       float64         `json:"amount"`
	Date         string          `json:"date"`
	ProductName  string          `json:"productName,omitempty"`
	CustomerName string          `json:"customerName,omitempty"`
}
