package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestProductPatch_ApplyOnlyProvidedFields(t *testing.T) {
	base := Product{
		ID:          "1",
		Name:        "Smartphone X",
		Description: "Latest smartphone with advanced features",
		Category:    "electronics",
		Price:       799.99,
		Rating:      4.5,
	}

	got := ProductPatch{Price: ptr(50.0)}.Apply(base)

	if got.Price != 50 {
		t.Fatalf("expected price 50, got %v", got.Price)
	}
	if got.Name != base.Name || got.Category != base.Category || got.Rating != base.Rating {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if base.Price != 799.99 {
		t.Fatalf("Apply mutated the original product")
	}
}

func TestProductPatch_Empty(t *testing.T) {
	if !(ProductPatch{}).Empty() {
		t.Fatalf("zero patch should be empty")
	}
	if (ProductPatch{Image: ptr("")}).Empty() {
		t.Fatalf("patch with image should not be empty")
	}
}

func TestUser_PublicNeverCarriesPassword(t *testing.T) {
	u := &User{
		ID:           "abc",
		Email:        "a@b.com",
		PasswordHash: "$2a$10$hash",
		Role:         RoleUser,
		CreatedAt:    time.Now(),
	}

	for _, v := range []any{u, u.Public()} {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body := strings.ToLower(string(raw))
		if strings.Contains(body, "password") || strings.Contains(body, "$2a$") {
			t.Fatalf("credential leaked in %s", raw)
		}
	}

	pub := u.Public()
	if pub.ID != "abc" || pub.Email != "a@b.com" || pub.Role != RoleUser {
		t.Fatalf("unexpected projection: %+v", pub)
	}
}

func TestValidationError_MessageIsStable(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"password": "password must be at least 8 characters",
		"email":    "email must be a valid email",
	}}

	want := "invalid input: email must be a valid email; password must be at least 8 characters"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}
