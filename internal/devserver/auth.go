package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/warungdesk/warungdesk/internal/httpx"
	"github.com/warungdesk/warungdesk/internal/models"
	"github.com/warungdesk/warungdesk/internal/validation"
)

type ctxKey string

const userCtxKey = ctxKey("user")

// tokenTTL matches the two-week session the dashboard expects.
const tokenTTL = 14 * 24 * time.Hour

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (s *Server) issueToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parseToken(raw string) (models.User, bool) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return models.User{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.User{}, false
	}
	user := models.User{}
	if v, ok := claims["sub"].(string); ok {
		user.ID = v
	}
	if v, ok := claims["name"].(string); ok {
		user.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		user.Email = v
	}
	return user, user.ID != ""
}

// requireAuth rejects requests without a valid bearer token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			httpx.JSONError(w, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		user, ok := s.parseToken(raw)
		if !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "invalid token", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey, user)))
	})
}

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("email", in.Email, v)
	validation.Required("password", in.Password, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}
	user, ok := s.store.CreateAccount(in.Name, in.Email, in.Password)
	if !ok {
		httpx.JSONError(w, http.StatusConflict, "email already registered", nil)
		return
	}
	token, err := s.issueToken(user)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "token issue failed", nil)
		return
	}
	s.log.WithField("email", user.Email).Info("account registered")
	httpx.JSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON", nil)
		return
	}
	user, ok := s.store.Authenticate(in.Email, in.Password)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	token, err := s.issueToken(user)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "token issue failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, authResponse{User: user, Token: token})
}
