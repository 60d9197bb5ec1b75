package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/certprep/internal/rbac"
)

const tokenTTL = 8 * time.Hour

var ErrBadToken = errors.New("auth: invalid token")

// AuthService signs and verifies HS256 admin tokens.
type AuthService struct{ hmac []byte }

func NewAuthService(secret string) *AuthService { return &AuthService{hmac: []byte(secret)} }

// Claims carries the operator name in the standard "sub" claim.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(sub, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "certprep",
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrBadToken
	}
	return c, nil
}

// Admin is the single operator account allowed to log in.
type Admin struct {
	User     string
	PassHash string // bcrypt; empty disables login
}

// POST /auth/login  { "username": "...", "password": "..." }
func LoginHandler(a *AuthService, admin Admin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if admin.PassHash == "" {
			writeErr(w, http.StatusForbidden, "admin login disabled")
			return
		}
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Username != admin.User ||
			bcrypt.CompareHashAndPassword([]byte(admin.PassHash), []byte(req.Password)) != nil {
			writeErr(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		tok, err := a.IssueJWT(req.Username, "admin")
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "issue token")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

// JWTMiddleware validates the bearer token and places subject and role in the
// request context.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeErr(w, http.StatusUnauthorized, "missing bearer")
				return
			}
			c, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				writeErr(w, http.StatusUnauthorized, "bad token")
				return
			}
			ctx := rbac.WithRole(WithSubject(r.Context(), c.Subject), c.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
