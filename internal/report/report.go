// Package report computes the dashboard and financial-report figures. All
// functions are pure aggregations over collection snapshots: same input,
// same output, no state.
package report

import "github.com/warungdesk/warungdesk/internal/models"

// Summary is the financial report over the transaction ledger.
type Summary struct {
	TotalIncome  float64
	TotalExpense float64
	NetProfit    float64
}

// Summarize totals income and expense entries and derives net profit.
func Summarize(txs []models.Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case models.Income:
			s.TotalIncome += t.Amount
		case models.Expense:
			s.TotalExpense += t.Amount
		}
	}
	s.NetProfit = s.TotalIncome - s.TotalExpense
	return s
}

// TotalSales is the income total shown on the dashboard.
func TotalSales(txs []models.Transaction) float64 {
	return Summarize(txs).TotalIncome
}

// Stats are the dashboard quick counts.
type Stats struct {
	TotalProducts  int
	TotalCustomers int
	TotalSales     float64
}

// Dashboard joins the three collections into the quick-stats card values.
func Dashboard(products []models.Product, customers []models.Customer, txs []models.Transaction) Stats {
	return Stats{
		TotalProducts:  len(products),
		TotalCustomers: len(customers),
		TotalSales:     TotalSales(txs),
	}
}
