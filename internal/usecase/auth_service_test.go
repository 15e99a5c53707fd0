package usecase

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/topcornerhq/topcorner/internal/domain/user"
)

func TestSignupCreatesUserWithDefaults(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, stubIssuer{token: "tok"}, &fixedIDGen{})

	created, token, err := svc.Signup(context.Background(), SignupInput{
		FullName: "Dele Ade",
		Username: "dele",
		Email:    "Dele@Example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if token != "tok" {
		t.Fatalf("token = %q, want tok", token)
	}
	if created.Points != user.DefaultPoints {
		t.Fatalf("points = %d, want %d", created.Points, user.DefaultPoints)
	}
	if created.Email != "dele@example.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
	if created.PasswordHash == "s3cret-pass" || created.PasswordHash == "" {
		t.Fatal("password must be stored as a hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo(user.User{ID: "u1", FullName: "A", Username: "a", Email: "a@b.c", Points: 1000})
	svc := NewAuthService(repo, stubIssuer{token: "tok"}, &fixedIDGen{})

	_, _, err := svc.Signup(context.Background(), SignupInput{
		FullName: "B", Username: "b", Email: "a@b.c", Password: "whatever1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	repo := newStubUserRepo(user.User{ID: "u1", FullName: "A", Username: "dele", Email: "a@b.c", Points: 1000})
	svc := NewAuthService(repo, stubIssuer{token: "tok"}, &fixedIDGen{})

	_, _, err := svc.Signup(context.Background(), SignupInput{
		FullName: "B", Username: "dele", Email: "b@b.c", Password: "whatever1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := newStubUserRepo(user.User{
		ID: "u1", FullName: "A", Username: "a", Email: "a@b.c",
		PasswordHash: string(hash), Points: 1000,
	})
	svc := NewAuthService(repo, stubIssuer{token: "tok"}, &fixedIDGen{})

	t.Run("ok", func(t *testing.T) {
		found, token, err := svc.Login(context.Background(), "A@B.C", "open-sesame")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if found.ID != "u1" || token != "tok" {
			t.Fatalf("got user=%s token=%q", found.ID, token)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, _, err := svc.Login(context.Background(), "a@b.c", "nope"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, _, err := svc.Login(context.Background(), "ghost@b.c", "open-sesame"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})
}
