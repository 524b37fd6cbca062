package validation

import (
	"strings"
	"testing"
)

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestStructPasses(t *testing.T) {
	va := New()
	if err := va.Struct(loginForm{Email: "dev@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Struct() error: %v", err)
	}
}

func TestStructUsesJSONFieldNames(t *testing.T) {
	va := New()
	err := va.Struct(loginForm{Password: "secret123"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "email is required" {
		t.Fatalf("message = %q", got)
	}
}

func TestStructReportsFirstFailure(t *testing.T) {
	va := New()
	err := va.Struct(loginForm{Email: "not-an-email", Password: "secret123"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "email must be a valid email" {
		t.Fatalf("message = %q", got)
	}
}

func TestToDetailsMapsEveryField(t *testing.T) {
	va := New()
	err := va.v.Struct(loginForm{})
	details := va.ToDetails(err)
	if len(details) != 2 {
		t.Fatalf("details = %v", details)
	}
	for field, msg := range details {
		if !strings.Contains(msg, "required") {
			t.Fatalf("field %q message = %q", field, msg)
		}
	}
}

func TestPwdAlias(t *testing.T) {
	type form struct {
		Password string `json:"password" validate:"required,pwd"`
	}
	va := New()
	err := va.Struct(form{Password: "short"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "password must be at least 8 characters long" {
		t.Fatalf("message = %q", got)
	}
}
