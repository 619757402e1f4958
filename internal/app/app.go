// Package app wires the session, the gateway and the three entity
// collections together and owns their lifecycle: the collections exist and
// fetch only while the session is authenticated.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warungdesk/warungdesk/internal/collection"
	"github.com/warungdesk/warungdesk/internal/config"
	"github.com/warungdesk/warungdesk/internal/gateway"
	"github.com/warungdesk/warungdesk/internal/models"
	"github.com/warungdesk/warungdesk/internal/session"
	"github.com/warungdesk/warungdesk/internal/statestore"
	"github.com/warungdesk/warungdesk/internal/validation"
)

// App is the composition root of the dashboard core.
type App struct {
	Session *session.Store
	Gateway *gateway.Client

	Products     *collection.Controller[models.Product, models.NewProduct]
	Customers    *collection.Controller[models.Customer, models.NewCustomer]
	Transactions *TransactionLog

	log *logrus.Logger
}

// New restores the persisted session and, when one exists, mounts and loads
// the collections. Collection load failures are recorded per collection,
// not returned: a failed initial fetch degrades to an empty list with a
// visible error, never a startup failure.
func New(ctx context.Context, cfg config.Config, log *logrus.Logger) (*App, error) {
	persist, err := statestore.Open(cfg.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	sess := session.New(persist, log)
	gw := gateway.New(cfg.APIBaseURL, sess, log)
	sess.UseGateway(gw)

	a := &App{Session: sess, Gateway: gw, log: log}
	if sess.Restore() == session.Authenticated {
		a.mount(ctx)
	}
	return a, nil
}

// SignedIn reports whether collections are mounted.
func (a *App) SignedIn() bool { return a.Session.State() == session.Authenticated }

// Login authenticates and mounts the collections on success.
func (a *App) Login(ctx context.Context, email, password string) error {
	if err := a.Session.Login(ctx, email, password); err != nil {
		return err
	}
	a.mount(ctx)
	return nil
}

// Register creates an account, signs in and mounts the collections.
func (a *App) Register(ctx context.Context, name, email, password string) error {
	if err := a.Session.Register(ctx, name, email, password); err != nil {
		return err
	}
	a.mount(ctx)
	return nil
}

// Logout tears the collections down and clears the session. Idempotent.
func (a *App) Logout() error {
	a.Products = nil
	a.Customers = nil
	a.Transactions = nil
	return a.Session.Logout()
}

// mount creates the three controllers and issues their one initial fetch
// each. The session gate lives here: mount only runs once authenticated.
func (a *App) mount(ctx context.Context) {
	a.Products = collection.New[models.Product, models.NewProduct](
		a.Gateway, "/products", func(p models.Product) int { return p.ID }, a.log)
	a.Customers = collection.New[models.Customer, models.NewCustomer](
		a.Gateway, "/customers", func(c models.Customer) int { return c.ID }, a.log)
	a.Transactions = &TransactionLog{c: collection.New[models.Transaction, models.NewTransaction](
		a.Gateway, "/transactions", func(t models.Transaction) int { return t.ID }, a.log)}

	a.Products.Load(ctx)
	a.Customers.Load(ctx)
	a.Transactions.Load(ctx)
}

// BuildSale assembles an income transaction from a product and customer
// selection. Both ids resolve through explicit lookups; a missing id is a
// validation failure at the call site, not a panic deeper down. The product
// and customer names are copied into the transaction as snapshots and never
// track later edits.
func (a *App) BuildSale(productID, customerID, quantity int, date string) (models.NewTransaction, error) {
	v := validation.Violations{}
	validation.PositiveInt("quantity", quantity, v)
	validation.Required("date", date, v)

	product, ok := a.Products.Find(productID)
	if !ok {
		v["product_id"] = "not_found"
	}
	customer, ok := a.Customers.Find(customerID)
	if !ok {
		v["customer_id"] = "not_found"
	}
	if !v.Empty() {
		return models.NewTransaction{}, v
	}

	return models.NewTransaction{
		Type:         models.Income,
		Description:  fmt.Sprintf("Sale of %d x %s", quantity, product.Name),
		Amount:       product.Price * float64(quantity),
		Date:         date,
		ProductName:  product.Name,
		CustomerName: customer.Name,
	}, nil
}

// BuildExpense assembles an expense transaction.
func (a *App) BuildExpense(description string, amount float64, date string) (models.NewTransaction, error) {
	v := validation.Violations{}
	validation.Required("description", description, v)
	validation.PositiveFloat("amount", amount, v)
	validation.Required("date", date, v)
	if !v.Empty() {
		return models.NewTransaction{}, v
	}
	return models.NewTransaction{
		Type:        models.Expense,
		Description: description,
		Amount:      amount,
		Date:        date,
	}, nil
}

// Today is the default transaction date.
func Today() string { return time.Now().Format("2006-01-02") }
