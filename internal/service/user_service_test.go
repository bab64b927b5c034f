package service

import (
	"context"
	"testing"
	"time"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/billing"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	users  map[uuid.UUID]model.User
	tokens map[string]model.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[uuid.UUID]model.User),
		tokens: make(map[string]model.RefreshToken),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = testNow
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, billing.ErrNotFound
	}
	out := u
	return &out, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, billing.ErrNotFound
}

func (f *fakeUserRepo) CreateRefreshToken(_ context.Context, token *model.RefreshToken) error {
	f.tokens[token.Token] = *token
	return nil
}

func (f *fakeUserRepo) GetRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, billing.ErrNotFound
	}
	out := t
	return &out, nil
}

func (f *fakeUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	if _, ok := f.tokens[token]; !ok {
		return billing.ErrNotFound
	}
	delete(f.tokens, token)
	return nil
}

func registerAndLogin(t *testing.T) (*userService, *fakeUserRepo, *TokenResponse) {
	t.Helper()

	repo := newFakeUserRepo()
	svc := &userService{repo: repo}
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Name:     "Jo",
		Email:    "jo@example.test",
		Password: "hunter22",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tokens, err := svc.Login(ctx, LoginRequest{Email: "jo@example.test", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return svc, repo, tokens
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &userService{repo: repo}
	ctx := context.Background()

	req := RegisterRequest{Name: "Jo", Email: "jo@example.test", Password: "hunter22"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, req); err == nil {
		t.Fatal("second Register with the same email succeeded")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := registerAndLogin(t)

	if _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jo@example.test",
		Password: "wrong",
	}); err == nil {
		t.Fatal("login with wrong password succeeded")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, repo, tokens := registerAndLogin(t)
	ctx := context.Background()

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// Single use: the old token is spent.
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); err == nil {
		t.Error("spent refresh token was accepted")
	}
	if _, ok := repo.tokens[tokens.RefreshToken]; ok {
		t.Error("spent refresh token still stored")
	}
}

func TestRefreshExpiredToken(t *testing.T) {
	svc, repo, tokens := registerAndLogin(t)

	stored := repo.tokens[tokens.RefreshToken]
	stored.ExpiresAt = time.Now().Add(-time.Hour)
	repo.tokens[tokens.RefreshToken] = stored

	if _, err := svc.Refresh(context.Background(), tokens.RefreshToken); err == nil {
		t.Fatal("expired refresh token was accepted")
	}
	if _, ok := repo.tokens[tokens.RefreshToken]; ok {
		t.Error("expired refresh token still stored")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, tokens := registerAndLogin(t)
	ctx := context.Background()

	if err := svc.Logout(ctx, tokens.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	// A second logout with the same (now unknown) token is not an error.
	if err := svc.Logout(ctx, tokens.RefreshToken); err != nil {
		t.Errorf("repeated Logout: %v", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Errorf("Logout with empty token: %v", err)
	}
}
