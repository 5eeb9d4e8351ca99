package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/apperror"
)

type sampleRequest struct {
	Name      string `validate:"required"`
	Email     string `validate:"required,email"`
	CompanyID string `validate:"omitempty,uuid"`
}

func validationErrorFor(t *testing.T, req sampleRequest) error {
	t.Helper()

	err := validator.New().Struct(req)
	require.Error(t, err)
	return err
}

func TestMapValidationError_RequiredField(t *testing.T) {
	err := validationErrorFor(t, sampleRequest{Email: "a@b.com"})

	mapped := apperror.MapValidationError(err)

	var appErr *apperror.AppError
	require.ErrorAs(t, mapped, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Equal(t, "Name is required", appErr.Message)
}

func TestMapValidationError_InvalidField(t *testing.T) {
	err := validationErrorFor(t, sampleRequest{Name: "Ana", Email: "not-an-email"})

	mapped := apperror.MapValidationError(err)

	var appErr *apperror.AppError
	require.ErrorAs(t, mapped, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Equal(t, "Email is invalid", appErr.Message)
}

func TestMapValidationError_TitlesUnderscoredFields(t *testing.T) {
	type snaked struct {
		Tax_id string `validate:"required"`
	}
	err := validator.New().Struct(snaked{})
	require.Error(t, err)

	mapped := apperror.MapValidationError(err)

	var appErr *apperror.AppError
	require.ErrorAs(t, mapped, &appErr)
	assert.Equal(t, "Tax Id is required", appErr.Message)
}

func TestMapValidationError_NonValidatorError(t *testing.T) {
	mapped := apperror.MapValidationError(errors.New("unexpected EOF"))

	var appErr *apperror.AppError
	require.ErrorAs(t, mapped, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Equal(t, "Invalid input", appErr.Message)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}
