package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"atlas/globals"
	"atlas/models"
	"atlas/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates and mints bearer tokens. The signing secret is injected at
// startup.
type Auth struct {
	secret []byte
	ttl    time.Duration
}

func NewAuth(secret []byte) *Auth {
	return &Auth{secret: secret, ttl: 12 * time.Hour}
}

// ExtractBearer strips the "Bearer " prefix from an Authorization header
// value. ok is false when the prefix is absent.
func ExtractBearer(header string) (string, bool) {
	if len(header) < 8 || header[:7] != "Bearer " {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

// Sign issues an HS256 token for the user.
func (a *Auth) Sign(u models.User) (string, error) {
	claims := &Claims{
		UserID: u.UserID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ValidateJWT parses a raw Authorization header value. It fails on a
// missing Bearer prefix, bad signature, malformed token, or expiry.
func (a *Auth) ValidateJWT(header string) (*Claims, error) {
	tokenString, ok := ExtractBearer(header)
	if !ok {
		return nil, fmt.Errorf("invalid token format")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	return claims, nil
}

func withClaims(r *http.Request, claims *Claims) *http.Request {
	ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, globals.EmailKey, claims.Email)
	ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
	return r.WithContext(ctx)
}

// Authenticate rejects requests without a valid bearer token.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		if header == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing token")
			return
		}
		claims, err := a.ValidateJWT(header)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, withClaims(r, claims), ps)
	}
}

// OptionalAuth attaches claims when a valid token is present and proceeds
// either way. Guest booking creation runs through this.
func (a *Auth) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, err := a.ValidateJWT(r.Header.Get("Authorization")); err == nil {
			r = withClaims(r, claims)
		}
		next(w, r, ps)
	}
}

// RequireAdmin is Authenticate plus an admin role check: 401 without a
// token, 403 with a non-admin one.
func (a *Auth) RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return a.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !IsAdmin(r.Context()) {
			utils.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r, ps)
	})
}

// --- context accessors ---

func UserID(ctx context.Context) string {
	id, _ := ctx.Value(globals.UserIDKey).(string)
	return id
}

func Email(ctx context.Context) string {
	email, _ := ctx.Value(globals.EmailKey).(string)
	return email
}

func Role(ctx context.Context) string {
	role, _ := ctx.Value(globals.RoleKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return Role(ctx) == models.RoleAdmin
}

// OwnsBooking reports whether the credential in ctx may act on a booking:
// admin, matching user reference, or matching customer email (how a guest
// booking is claimed after the email registers).
func OwnsBooking(ctx context.Context, ownerUserID, customerEmail string) bool {
	if IsAdmin(ctx) {
		return true
	}
	if uid := UserID(ctx); uid != "" && uid == ownerUserID {
		return true
	}
	if ownerUserID == "" && customerEmail != "" {
		return strings.EqualFold(Email(ctx), customerEmail)
	}
	return false
}

// Owns is the owner-or-admin rule for resources that always carry a user
// reference (dependants, profiles, reviews).
func Owns(ctx context.Context, ownerUserID string) bool {
	if IsAdmin(ctx) {
		return true
	}
	uid := UserID(ctx)
	return uid != "" && uid == ownerUserID
}
