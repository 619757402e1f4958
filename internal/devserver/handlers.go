package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warungdesk/warungdesk/internal/httpx"
	"github.com/warungdesk/warungdesk/internal/models"
	"github.com/warungdesk/warungdesk/internal/validation"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, s.store.Products())
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.PositiveFloat("price", in.Price, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}
	httpx.JSON(w, http.StatusCreated, s.store.AddProduct(in))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var in models.Product
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON", nil)
		return
	}
	in.ID = id
	updated, ok := s.store.UpdateProduct(in)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "product not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if !s.store.DeleteProduct(id) {
		httpx.JSONError(w, http.StatusNotFound, "product not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, s.store.Customers())
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in models.NewCustomer
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}
	httpx.JSON(w, http.StatusCreated, s.store.AddCustomer(in))
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var in models.Customer
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON", nil)
		return
	}
	in.ID = id
	updated, ok := s.store.UpdateCustomer(in)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "customer not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if !s.store.DeleteCustomer(id) {
		httpx.JSONError(w, http.StatusNotFound, "customer not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleLedgerImmutable(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, http.StatusMethodNotAllowed, "transactions are append-only", nil)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, s.store.Transactions())
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in models.NewTransaction
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON", nil)
		return
	}
	v := validation.Violations{}
	if in.Type != models.Income && in.Type != models.Expense {
		v["type"] = "must_be_income_or_expense"
	}
	validation.Required("description", in.Description, v)
	validation.PositiveFloat("amount", in.Amount, v)
	validation.Required("date", in.Date, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}
	httpx.JSON(w, http.StatusCreated, s.store.AddTransaction(in))
}
