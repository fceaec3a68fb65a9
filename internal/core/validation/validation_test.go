package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/producthub/catalog-api/internal/core/domain"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type listing struct {
	Rating *float64 `query:"min_rating" validate:"omitempty,gte=0,lte=5"`
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, Struct(signup{Email: "a@b.com", Password: "password1"}))
}

func TestStruct_PerFieldMessages(t *testing.T) {
	err := Struct(signup{Email: "nope", Password: "short"})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "email must be a valid email", ve.Fields["email"])
	assert.Equal(t, "password must be at least 8 characters", ve.Fields["password"])
}

func TestStruct_RequiredUsesWireName(t *testing.T) {
	err := Struct(signup{})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "email is required", ve.Fields["email"])
	assert.Equal(t, "password is required", ve.Fields["password"])
}

func TestStruct_QueryTagName(t *testing.T) {
	bad := 7.0
	err := Struct(listing{Rating: &bad})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "min_rating must be at most 5", ve.Fields["min_rating"])
}
