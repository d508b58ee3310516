package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/persondata/internal/pkg/apperrors"
)

func TestIdentityValidator_NetID(t *testing.T) {
	iv := NewIdentityValidator()

	for _, ok := range []string{"javerage", "jadviser1", "a", "j.doe-x_1"} {
		assert.NoError(t, iv.NetID(ok), ok)
	}

	for _, bad := range []string{"", "1javerage", "-abc", "ja verage", "j@verage", "JAverage", "JAVERAGE"} {
		err := iv.NetID(bad)
		require.Error(t, err, bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier)

		var invalid *apperrors.InvalidIdentifierError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, bad, invalid.Identifier)
		assert.Equal(t, ClassNetID, invalid.Class)
	}
}

func TestIdentityValidator_SystemKey(t *testing.T) {
	iv := NewIdentityValidator()

	assert.NoError(t, iv.SystemKey("123456789"))
	assert.NoError(t, iv.SystemKey("532353230"))
	assert.ErrorIs(t, iv.SystemKey("12345678"), apperrors.ErrInvalidIdentifier)
	assert.ErrorIs(t, iv.SystemKey("1234567890"), apperrors.ErrInvalidIdentifier)
	assert.ErrorIs(t, iv.SystemKey("12345678a"), apperrors.ErrInvalidIdentifier)
}

func TestIdentityValidator_RegIDAndStudentNumber(t *testing.T) {
	iv := NewIdentityValidator()

	assert.NoError(t, iv.RegID("9136CCB8F66711D5BE060004AC494FFE"))
	assert.ErrorIs(t, iv.RegID("11111B8F66711D5BE060004AC494FFE"), apperrors.ErrInvalidIdentifier)

	assert.NoError(t, iv.StudentNumber("1033334"))
	assert.ErrorIs(t, iv.StudentNumber("10333x4"), apperrors.ErrInvalidIdentifier)
}
