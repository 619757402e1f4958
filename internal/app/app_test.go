package app

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungdesk/warungdesk/internal/config"
	"github.com/warungdesk/warungdesk/internal/devserver"
	"github.com/warungdesk/warungdesk/internal/models"
	"github.com/warungdesk/warungdesk/internal/report"
	"github.com/warungdesk/warungdesk/internal/validation"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestApp runs the whole stack in-process: the dev server stands in for
// the remote API and the state db lives in memory.
func newTestApp(t *testing.T) *App {
	t.Helper()
	srv := httptest.NewServer(devserver.New(testLogger()))
	t.Cleanup(srv.Close)

	cfg := config.Config{
		APIBaseURL:  srv.URL + "/api",
		StateDBPath: "file:" + t.Name() + "?mode=memory&cache=shared",
	}
	a, err := New(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	return a
}

func TestCollectionsGatedUntilAuthenticated(t *testing.T) {
	a := newTestApp(t)
	assert.False(t, a.SignedIn())
	assert.Nil(t, a.Products)
	assert.Nil(t, a.Customers)
	assert.Nil(t, a.Transactions)

	require.NoError(t, a.Register(context.Background(), "Sari", "sari@warung.id", "hunter2"))
	assert.True(t, a.SignedIn())
	require.NotNil(t, a.Products)
	require.NoError(t, a.Products.Err())
}

func TestLoginFailureLeavesCollectionsUnmounted(t *testing.T) {
	a := newTestApp(t)
	err := a.Login(context.Background(), "nobody@warung.id", "nope")
	require.Error(t, err)
	assert.EqualError(t, err, "invalid credentials")
	assert.Nil(t, a.Products)
}

func TestSaleFlowEndToEnd(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Register(ctx, "Sari", "sari@warung.id", "hunter2"))

	cup, err := a.Products.Add(ctx, models.NewProduct{Name: "Cup", Price: 15000, Category: "kitchen"})
	require.NoError(t, err)
	budi, err := a.Customers.Add(ctx, models.NewCustomer{Name: "Budi", Email: "budi@x.id"})
	require.NoError(t, err)
	assert.NotEmpty(t, budi.MemberSince, "server stamps memberSince")

	sale, err := a.BuildSale(cup.ID, budi.ID, 3, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, "Sale of 3 x Cup", sale.Description)
	assert.Equal(t, 45000.0, sale.Amount)
	assert.Equal(t, "Cup", sale.ProductName)
	assert.Equal(t, "Budi", sale.CustomerName)

	created, err := a.Transactions.Add(ctx, sale)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	expense, err := a.BuildExpense("ice delivery", 5000, "2026-08-30")
	require.NoError(t, err)
	_, err = a.Transactions.Add(ctx, expense)
	require.NoError(t, err)

	s := report.Summarize(a.Transactions.List())
	assert.Equal(t, 45000.0, s.TotalIncome)
	assert.Equal(t, 5000.0, s.TotalExpense)
	assert.Equal(t, 40000.0, s.NetProfit)
}

func TestSaleSnapshotsDoNotTrackLaterEdits(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Register(ctx, "Sari", "sari@warung.id", "hunter2"))

	cup, err := a.Products.Add(ctx, models.NewProduct{Name: "Cup", Price: 15000})
	require.NoError(t, err)
	budi, err := a.Customers.Add(ctx, models.NewCustomer{Name: "Budi"})
	require.NoError(t, err)

	sale, err := a.BuildSale(cup.ID, budi.ID, 1, "2026-08-30")
	require.NoError(t, err)
	recorded, err := a.Transactions.Add(ctx, sale)
	require.NoError(t, err)

	// Rename the product and delete the customer; the ledger entry is a
	// snapshot and must not move.
	cup.Name = "Mega Cup"
	_, err = a.Products.Update(ctx, cup)
	require.NoError(t, err)
	require.NoError(t, a.Customers.Delete(ctx, budi.ID))

	entry := a.Transactions.List()[0]
	assert.Equal(t, recorded.ID, entry.ID)
	assert.Equal(t, "Cup", entry.ProductName)
	assert.Equal(t, "Budi", entry.CustomerName)
}

func TestBuildSaleRejectsUnknownIDs(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Register(ctx, "Sari", "sari@warung.id", "hunter2"))

	_, err := a.BuildSale(41, 42, 1, "2026-08-30")
	require.Error(t, err)

	var v validation.Violations
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "not_found", v["product_id"])
	assert.Equal(t, "not_found", v["customer_id"])
}

func TestBuildExpenseValidates(t *testing.T) {
	a := newTestApp(t)
	_, err := a.BuildExpense("", -3, "")
	require.Error(t, err)

	var v validation.Violations
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v, "description")
	assert.Contains(t, v, "amount")
	assert.Contains(t, v, "date")
}

func TestSessionSurvivesRestart(t *testing.T) {
	srv := httptest.NewServer(devserver.New(testLogger()))
	t.Cleanup(srv.Close)
	cfg := config.Config{
		APIBaseURL:  srv.URL + "/api",
		StateDBPath: "file:" + t.Name() + "?mode=memory&cache=shared",
	}

	first, err := New(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	require.NoError(t, first.Register(context.Background(), "Sari", "sari@warung.id", "hunter2"))

	// Same state db, fresh process: the session restores and collections
	// mount without a new login.
	second, err := New(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	assert.True(t, second.SignedIn())
	require.NotNil(t, second.Session.User())
	assert.Equal(t, "Sari", second.Session.User().Name)
	require.NotNil(t, second.Products)
}

func TestLogoutUnmountsAndIsIdempotent(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Register(context.Background(), "Sari", "sari@warung.id", "hunter2"))

	require.NoError(t, a.Logout())
	assert.False(t, a.SignedIn())
	assert.Nil(t, a.Products)

	require.NoError(t, a.Logout())
	assert.False(t, a.SignedIn())
}
