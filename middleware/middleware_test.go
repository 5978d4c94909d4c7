package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"atlas/globals"
	"atlas/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

var testUser = models.User{UserID: "u123", Email: "a@b.com", Role: models.RoleUser}

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer ", "", false},
		{"bearer abc", "", false},
		{"abc.def.ghi", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ExtractBearer(c.header)
		if got != c.want || ok != c.ok {
			t.Errorf("ExtractBearer(%q) = %q, %v; want %q, %v", c.header, got, ok, c.want, c.ok)
		}
	}
}

func TestSignAndValidateRoundTrip(t *testing.T) {
	a := NewAuth([]byte("test-secret"))
	token, err := a.Sign(testUser)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := a.ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != testUser.UserID || claims.Email != testUser.Email || claims.Role != testUser.Role {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewAuth([]byte("secret-one")).Sign(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewAuth([]byte("secret-two")).ValidateJWT("Bearer " + token); err == nil {
		t.Error("token signed with a different secret validated")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	a := NewAuth([]byte("test-secret"))
	claims := &Claims{
		UserID: testUser.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.ValidateJWT("Bearer " + token); err == nil {
		t.Error("expired token validated")
	}
}

func TestAuthenticateMiddleware(t *testing.T) {
	a := NewAuth([]byte("test-secret"))
	token, _ := a.Sign(testUser)

	handler := a.Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if got := UserID(r.Context()); got != testUser.UserID {
			t.Errorf("context userId = %q", got)
		}
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		header string
		want   int
	}{
		{"Bearer " + token, http.StatusOK},
		{"", http.StatusUnauthorized},
		{"Bearer not-a-token", http.StatusUnauthorized},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/x", nil)
		if c.header != "" {
			r.Header.Set("Authorization", c.header)
		}
		w := httptest.NewRecorder()
		handler(w, r, nil)
		if w.Code != c.want {
			t.Errorf("header %q: status = %d, want %d", c.header, w.Code, c.want)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	a := NewAuth([]byte("test-secret"))
	admin := models.User{UserID: "adm", Email: "adm@b.com", Role: models.RoleAdmin}

	handler := a.RequireAdmin(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	adminToken, _ := a.Sign(admin)
	userToken, _ := a.Sign(testUser)

	cases := []struct {
		token string
		want  int
	}{
		{adminToken, http.StatusOK},
		{userToken, http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/x", nil)
		if c.token != "" {
			r.Header.Set("Authorization", "Bearer "+c.token)
		}
		w := httptest.NewRecorder()
		handler(w, r, nil)
		if w.Code != c.want {
			t.Errorf("status = %d, want %d", w.Code, c.want)
		}
	}
}

func ctxFor(userID, email, role string) context.Context {
	ctx := context.WithValue(context.Background(), globals.UserIDKey, userID)
	ctx = context.WithValue(ctx, globals.EmailKey, email)
	return context.WithValue(ctx, globals.RoleKey, role)
}

func TestOwnsBooking(t *testing.T) {
	cases := []struct {
		name          string
		ctx           context.Context
		ownerUserID   string
		customerEmail string
		want          bool
	}{
		{"owner by user ref", ctxFor("u1", "x@y.com", "user"), "u1", "other@y.com", true},
		{"stranger", ctxFor("u2", "x@y.com", "user"), "u1", "other@y.com", false},
		{"admin", ctxFor("u9", "adm@y.com", "admin"), "u1", "other@y.com", true},
		{"guest booking claimed by email", ctxFor("u3", "guest@y.com", "user"), "", "guest@y.com", true},
		{"guest booking email case-insensitive", ctxFor("u3", "Guest@Y.com", "user"), "", "guest@y.com", true},
		{"guest booking wrong email", ctxFor("u3", "nope@y.com", "user"), "", "guest@y.com", false},
		// email fallback only applies when no user reference exists
		{"email match but booking owned", ctxFor("u3", "guest@y.com", "user"), "u1", "guest@y.com", false},
	}
	for _, c := range cases {
		if got := OwnsBooking(c.ctx, c.ownerUserID, c.customerEmail); got != c.want {
			t.Errorf("%s: OwnsBooking = %v, want %v", c.name, got, c.want)
		}
	}
}
