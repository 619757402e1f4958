package app

import (
	"context"

	"github.com/warungdesk/warungdesk/internal/collection"
	"github.com/warungdesk/warungdesk/internal/models"
)

// TransactionLog is the append-only face of the transaction collection.
// The ledger contract exposes no update or delete, so neither does this
// type; the restriction lives in the type system rather than in convention.
type TransactionLog struct {
	c *collection.Controller[models.Transaction, models.NewTransaction]
}

func (l *TransactionLog) List() []models.Transaction { return l.c.List() }

func (l *TransactionLog) Load(ctx context.Context) { l.c.Load(ctx) }

func (l *TransactionLog) Add(ctx context.Context, input models.NewTransaction) (models.Transaction, error) {
	return l.c.Add(ctx, input)
}

func (l *TransactionLog) Loading() bool { return l.c.Loading() }

func (l *TransactionLog) Err() error { return l.c.Err() }

func (l *TransactionLog) OnChange(fn func()) { l.c.OnChange(fn) }
