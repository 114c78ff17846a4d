package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/willora/willora-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func newAuth() *AuthService {
	return NewAuthService(newTestStore().Users, NewTokenIssuer("test-secret", time.Hour))
}

func TestRegisterReturnsVerifiableToken(t *testing.T) {
	auth := newAuth()
	res := mustRegister(t, auth, "  Alice ", " Alice@Example.COM ")

	if res.User.Name != "Alice" || res.User.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if res.User.Password == "secret-pass" {
		t.Fatal("password stored in plaintext")
	}

	id, err := auth.tokens.Parse(res.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if id != res.User.ID {
		t.Fatalf("token identity %q, want %q", id, res.User.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	auth := newAuth()
	tests := []struct {
		name, email, password string
	}{
		{"", "a@example.com", "pw"},
		{"A", "  ", "pw"},
		{"A", "a@example.com", ""},
	}
	for _, tt := range tests {
		_, err := auth.Register(context.Background(), tt.name, tt.email, tt.password)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Register(%q, %q, %q) error = %v, want ErrValidation", tt.name, tt.email, tt.password, err)
		}
	}
}

func TestRegisterDuplicateEmailIgnoresCase(t *testing.T) {
	auth := newAuth()
	mustRegister(t, auth, "Alice", "alice@example.com")

	_, err := auth.Register(context.Background(), "Other", "ALICE@example.com", "pw")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	auth := newAuth()
	registered := mustRegister(t, auth, "Alice", "alice@example.com")
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		res, err := auth.Login(ctx, "Alice@example.com", "secret-pass")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if res.User.ID != registered.User.ID || res.Token == "" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, "alice@example.com", "nope")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := auth.Login(ctx, "bob@example.com", "secret-pass")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := auth.Login(ctx, "", "")
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	auth := newAuth()
	ctx := context.Background()
	alice := mustRegister(t, auth, "Alice", "alice@example.com")
	mustRegister(t, auth, "Bob", "bob@example.com")

	blank := "  "
	user, err := auth.UpdateProfile(ctx, alice.User.ID, UpdateProfileInput{Name: &blank})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.Name != "Alice" || user.Email != "alice@example.com" {
		t.Fatalf("blank fields changed the profile: %+v", user)
	}

	name, email := "Alicia", "Alicia@Example.com"
	user, err = auth.UpdateProfile(ctx, alice.User.ID, UpdateProfileInput{Name: &name, Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.Name != "Alicia" || user.Email != "alicia@example.com" {
		t.Fatalf("unexpected profile: %+v", user)
	}

	taken := "BOB@example.com"
	if _, err := auth.UpdateProfile(ctx, alice.User.ID, UpdateProfileInput{Email: &taken}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if _, err := auth.UpdateProfile(ctx, "missing", UpdateProfileInput{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTokenIssuerRejectsBadTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewTokenIssuer("secret-b", time.Hour).Parse(token); err == nil {
		t.Error("token signed with another secret was accepted")
	}
	if _, err := issuer.Parse(token + "x"); err == nil {
		t.Error("tampered token was accepted")
	}

	later := NewTokenIssuer("secret-a", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.Parse(token); err == nil {
		t.Error("expired token was accepted")
	}
}

func TestDefaultTokenTTL(t *testing.T) {
	issuer := NewTokenIssuer("s", 0)
	if issuer.ttl != 7*24*time.Hour {
		t.Fatalf("ttl = %s, want 168h", issuer.ttl)
	}
}

func TestLoginUpgradesLegacyBcryptHash(t *testing.T) {
	st := newTestStore()
	auth := NewAuthService(st.Users, NewTokenIssuer("test-secret", time.Hour))
	ctx := context.Background()

	legacy, err := bcrypt.GenerateFromPassword([]byte("secret123"), 10)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	old, err := st.Users.Create(ctx, models.User{Name: "Old", Email: "old@example.com", Password: string(legacy)})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := auth.Login(ctx, "old@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	res, err := auth.Login(ctx, "old@example.com", "secret123")
	if err != nil {
		t.Fatalf("login with legacy hash: %v", err)
	}
	if res.User.ID != old.ID || res.Token == "" {
		t.Fatalf("unexpected result: %+v", res)
	}

	stored, err := st.Users.GetByID(ctx, old.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !strings.HasPrefix(stored.Password, "$argon2id$") {
		t.Fatalf("hash not upgraded: %s", stored.Password)
	}
	if _, err := auth.Login(ctx, "old@example.com", "secret123"); err != nil {
		t.Fatalf("login after upgrade: %v", err)
	}
}
