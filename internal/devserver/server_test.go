package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungdesk/warungdesk/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, s *Server) (models.User, string) {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Sari", "email": "sari@warung.id", "password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.User, resp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	s := New(testLogger())
	user, _ := register(t, s)
	assert.Equal(t, "Sari", user.Name)

	// Duplicate email is rejected with the wire error shape.
	w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Imposter", "email": "sari@warung.id", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"message"`)

	w = doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "sari@warung.id", "password": "hunter2",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "sari@warung.id", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCollectionsRequireBearerToken(t *testing.T) {
	s := New(testLogger())
	w := doJSON(t, s, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/products", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProductCRUD(t *testing.T) {
	s := New(testLogger())
	_, token := register(t, s)

	w := doJSON(t, s, http.MethodPost, "/api/products", token, models.NewProduct{
		Name: "Cup", Price: 15000, Category: "kitchen",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID, "server assigns the id")

	w = doJSON(t, s, http.MethodPut, "/api/products/1", token, models.Product{Name: "Big Cup", Price: 20000})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Big Cup", updated.Name)
	assert.Equal(t, 1, updated.ID)

	w = doJSON(t, s, http.MethodGet, "/api/products", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	w = doJSON(t, s, http.MethodDelete, "/api/products/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodDelete, "/api/products/1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerMemberSinceIsServerAssigned(t *testing.T) {
	s := New(testLogger())
	_, token := register(t, s)

	w := doJSON(t, s, http.MethodPost, "/api/customers", token, map[string]string{
		"name": "Budi", "email": "budi@x.id", "phone": "0812",
		// A client trying to smuggle memberSince in gets ignored: the
		// create payload simply has no such field.
		"memberSince": "1999-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var c models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.NotEqual(t, "1999-01-01", c.MemberSince)
	assert.NotEmpty(t, c.MemberSince)

	// Updates cannot rewrite it either.
	c.Name = "Budi S."
	c.MemberSince = "1999-01-01"
	w = doJSON(t, s, http.MethodPut, "/api/customers/1", token, c)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Budi S.", updated.Name)
	assert.NotEqual(t, "1999-01-01", updated.MemberSince)
}

func TestTransactionsAreAppendOnly(t *testing.T) {
	s := New(testLogger())
	_, token := register(t, s)

	w := doJSON(t, s, http.MethodPost, "/api/transactions", token, models.NewTransaction{
		Type: models.Income, Description: "Sale of 1 x Cup", Amount: 15000, Date: "2026-08-30",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Update and delete on ledger entries are always refused.
	w = doJSON(t, s, http.MethodPut, "/api/transactions/1", token, models.Transaction{ID: 1})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = doJSON(t, s, http.MethodDelete, "/api/transactions/1", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestTransactionValidation(t *testing.T) {
	s := New(testLogger())
	_, token := register(t, s)

	w := doJSON(t, s, http.MethodPost, "/api/transactions", token, models.NewTransaction{
		Type: "refund", Description: "nope", Amount: 10, Date: "2026-08-30",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/transactions", token, models.NewTransaction{
		Type: models.Expense, Description: "ice", Amount: -5, Date: "2026-08-30",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
