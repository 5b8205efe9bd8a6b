package service

import (
	"context"
	"errors"
	"testing"
)

func TestUserServiceRegisterAndLogin(t *testing.T) {
	gdb := setupServiceTestDB(t, "user-register")
	svc := NewUserService(gdb, nil)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		Name:            "Ada",
		Email:           " Ada@Example.com ",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Token == "" || registered.User.Email != "ada@example.com" {
		t.Fatalf("unexpected register result: %+v", registered)
	}
	if registered.User.Password == "secret-pass" {
		t.Fatalf("password must be hashed")
	}

	user, err := svc.Authenticate(ctx, registered.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != registered.User.ID {
		t.Fatalf("expected user %d, got %d", registered.User.ID, user.ID)
	}

	loggedIn, err := svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.Token == registered.Token {
		t.Fatalf("expected a fresh token on login")
	}

	if err := svc.Logout(ctx, loggedIn.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, loggedIn.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected revoked token to fail, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, registered.Token); err != nil {
		t.Fatalf("other tokens should survive logout: %v", err)
	}
}

func TestUserServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	gdb := setupServiceTestDB(t, "user-dup")
	svc := NewUserService(gdb, nil)
	ctx := context.Background()

	input := RegisterInput{Name: "A", Email: "a@example.com", Password: "pw", ConfirmPassword: "pw"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}

	input.Email = "A@EXAMPLE.COM"
	_, err := svc.Register(ctx, input)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields[0].Field != "email" || verr.Fields[0].Message != "The email has already been taken." {
		t.Fatalf("unexpected field errors: %+v", verr.Fields)
	}
}

func TestUserServiceRegisterValidation(t *testing.T) {
	gdb := setupServiceTestDB(t, "user-validate")
	svc := NewUserService(gdb, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:            "",
		Email:           "not-an-email",
		Password:        "one",
		ConfirmPassword: "two",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"name", "email", "confirm_password"} {
		if !fields[want] {
			t.Fatalf("expected error on %s, got %+v", want, verr.Fields)
		}
	}
}

func TestUserServiceLoginFailuresAreGeneric(t *testing.T) {
	gdb := setupServiceTestDB(t, "user-login")
	svc := NewUserService(gdb, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "B", Email: "b@example.com", Password: "right", ConfirmPassword: "right"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name  string
		input LoginInput
	}{
		{"wrong password", LoginInput{Email: "b@example.com", Password: "wrong"}},
		{"unknown email", LoginInput{Email: "nobody@example.com", Password: "right"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, tt.input); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestUserServiceGet(t *testing.T) {
	gdb := setupServiceTestDB(t, "user-get")
	user := createTestUser(t, gdb, "get@example.com")
	svc := NewUserService(gdb, nil)

	got, err := svc.Get(context.Background(), user.ID)
	if err != nil || got.Email != "get@example.com" {
		t.Fatalf("unexpected get result: %+v, %v", got, err)
	}
	if _, err := svc.Get(context.Background(), 999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
