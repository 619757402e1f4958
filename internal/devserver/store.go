package devserver

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/warungdesk/warungdesk/internal/models"
)

// Store holds all dev-server state in memory. It exists so the dashboard can
// be developed and end-to-end tested without a real backend; restarting the
// process resets everything.
type Store struct {
	mu sync.Mutex

	users      map[string]*Account // keyed by email
	nextUser   int
	products   []models.Product
	nextProd   int
	customers  []models.Customer
	nextCust   int
	txs        []models.Transaction
	nextTx     int
}

// Account is a registered dev user.
type Account struct {
	User models.User
	Hash []byte
}

func NewStore() *Store {
	return &Store{
		users:    map[string]*Account{},
		nextUser: 1,
		nextProd: 1,
		nextCust: 1,
		nextTx:   1,
	}
}

// CreateAccount registers a user. ok is false when the email is taken.
func (s *Store) CreateAccount(name, email, password string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[email]; exists {
		return models.User{}, false
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, false
	}
	user := models.User{ID: strconv.Itoa(s.nextUser), Name: name, Email: email}
	s.nextUser++
	s.users[email] = &Account{User: user, Hash: hash}
	return user, true
}

// Authenticate checks email+password and returns the account user.
func (s *Store) Authenticate(email, password string) (models.User, bool) {
	s.mu.Lock()
	acct, exists := s.users[email]
	s.mu.Unlock()
	if !exists {
		return models.User{}, false
	}
	if bcrypt.CompareHashAndPassword(acct.Hash, []byte(password)) != nil {
		return models.User{}, false
	}
	return acct.User, true
}

func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) AddProduct(in models.NewProduct) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Product{
		ID:          s.nextProd,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
	}
	s.nextProd++
	s.products = append(s.products, p)
	return p
}

func (s *Store) UpdateProduct(p models.Product) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			return p, true
		}
	}
	return models.Product{}, false
}

func (s *Store) DeleteProduct(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Customers() []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// AddCustomer stamps memberSince server-side; the create payload cannot
// carry it.
func (s *Store) AddCustomer(in models.NewCustomer) models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Customer{
		ID:          s.nextCust,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		MemberSince: time.Now().Format("2006-01-02"),
	}
	s.nextCust++
	s.customers = append(s.customers, c)
	return c
}

func (s *Store) UpdateCustomer(c models.Customer) (models.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == c.ID {
			// memberSince stays server-owned even through updates
			c.MemberSince = s.customers[i].MemberSince
			s.customers[i] = c
			return c, true
		}
	}
	return models.Customer{}, false
}

func (s *Store) DeleteCustomer(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

func (s *Store) AddTransaction(in models.NewTransaction) models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := models.Transaction{
		ID:           s.nextTx,
		Type:         in.Type,
		Description:  in.Description,
		Amount:       in.Amount,
		Date:         in.Date,
		ProductName:  in.ProductName,
		CustomerName: in.CustomerName,
	}
	s.nextTx++
	s.txs = append(s.txs, t)
	return t
}
