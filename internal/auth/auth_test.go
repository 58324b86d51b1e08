package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/freelancepay/internal/models"
	"github.com/mmynk/freelancepay/internal/storage"
)

type memUsers struct {
	byEmail map[string]*models.User
	nextID  int64
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*models.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, u *models.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return storage.ErrConflict
	}
	m.nextID++
	u.ID = m.nextID
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemUsers()).WithCost(bcrypt.MinCost)

	t.Run("Register hashes the password", func(t *testing.T) {
		user, err := a.Register(ctx, " Jane@Example.com ", " Jane Doe ", "correct-horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.ID == 0 {
			t.Error("Expected user ID to be assigned")
		}
		if user.Email != "jane@example.com" {
			t.Errorf("Email not normalized: %q", user.Email)
		}
		if user.Name != "Jane Doe" {
			t.Errorf("Name not trimmed: %q", user.Name)
		}
		if user.PasswordHash == "correct-horse" || user.PasswordHash == "" {
			t.Error("Expected password to be hashed")
		}
	})

	t.Run("Register rejects duplicates and weak passwords", func(t *testing.T) {
		if _, err := a.Register(ctx, "jane@example.com", "Jane", "another-pass"); !errors.Is(err, ErrEmailExists) {
			t.Errorf("got %v, want ErrEmailExists", err)
		}
		if _, err := a.Register(ctx, "new@example.com", "New", "short"); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("got %v, want ErrWeakPassword", err)
		}
		long := strings.Repeat("x", MaxPasswordBytes+1)
		if _, err := a.Register(ctx, "new@example.com", "New", long); !errors.Is(err, ErrPasswordTooLong) {
			t.Errorf("got %v, want ErrPasswordTooLong", err)
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		user, err := a.Authenticate(ctx, "JANE@example.com", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.Name != "Jane Doe" {
			t.Errorf("got %q", user.Name)
		}

		if _, err := a.Authenticate(ctx, "jane@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
		if _, err := a.Authenticate(ctx, "ghost@example.com", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: 42, Email: "jane@example.com"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "jane@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("Expected a token ID")
	}
	if claims.Issuer != Issuer {
		t.Errorf("got issuer %q, want %q", claims.Issuer, Issuer)
	}
	if d := time.Until(claims.Expiry()); d <= 0 || d > time.Hour {
		t.Errorf("unexpected expiry in %v", d)
	}

	other, _ := m.Generate(user)
	otherClaims, _ := m.Validate(other)
	if otherClaims.ID == claims.ID {
		t.Error("Expected distinct token IDs")
	}

	t.Run("rejects foreign secret", func(t *testing.T) {
		_, err := NewJWTManager("other-secret", time.Hour).Validate(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired, err := NewJWTManager("test-secret", -time.Minute).Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(expired); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	sign := func(t *testing.T, method jwt.SigningMethod, claims *Claims) string {
		t.Helper()
		signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("SignedString failed: %v", err)
		}
		return signed
	}
	forged := func(issuer string) *Claims {
		now := time.Now()
		return &Claims{
			UserID: 42,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti",
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
		}
	}

	t.Run("rejects foreign issuer", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, forged("someone-else"))
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("rejects other signing methods", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS512, forged(Issuer))
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("tolerates small clock skew", func(t *testing.T) {
		behind := NewJWTManager("test-secret", time.Hour)
		behind.now = func() time.Time { return time.Now().Add(-10 * time.Second) }
		if _, err := behind.Validate(token); err != nil {
			t.Errorf("Validate failed: %v", err)
		}
	})
}
