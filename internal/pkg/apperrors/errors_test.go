package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	notFound := fmt.Errorf("resolve: %w", NewNotFound("login", "nobody"))
	assert.ErrorIs(t, notFound, ErrPersonNotFound)
	assert.ErrorIs(t, notFound, ErrResourceNotFound)
	assert.EqualError(t, NewNotFound("", "x"), "person not found: x")

	var nf *NotFoundError
	assert.True(t, errors.As(notFound, &nf))
	assert.Equal(t, "login", nf.Kind)

	assert.ErrorIs(t, NewAdviserNotFound("javerage"), ErrResourceNotFound)
	assert.NotErrorIs(t, NewAdviserNotFound("javerage"), ErrPersonNotFound)

	invalid := NewInvalidIdentifier("netid", "1abc")
	assert.ErrorIs(t, invalid, ErrValidationFailed)
	assert.EqualError(t, invalid, `invalid netid: "1abc"`)

	ambiguous := NewAmbiguous("login", "javerage", 2)
	assert.ErrorIs(t, ambiguous, ErrConflict)
	assert.EqualError(t, ambiguous, `login "javerage" matches 2 records`)

	bad := NewBadRequestError("timeout must be positive")
	assert.ErrorIs(t, bad, ErrBadRequest)
	assert.EqualError(t, bad, "timeout must be positive")
}
