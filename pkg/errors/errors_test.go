package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "code and message",
			err:  ErrSigningFailure,
			want: "SIGNING_FAILURE: signing failed",
		},
		{
			name: "with field",
			err:  ErrInvalidHexEncoding.WithField("salt"),
			want: "INVALID_HEX_ENCODING: salt: malformed hex value",
		},
		{
			name: "with cause",
			err:  Wrap(ErrValueOutOfRange.WithField("amount"), fmt.Errorf("boom")),
			want: "VALUE_OUT_OF_RANGE: amount: value out of range (cause: boom)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := ErrValueOutOfRange.WithField("fee_amount").WithMessage("exceeds 64 bits")

	assert.True(t, stderrors.Is(err, ErrValueOutOfRange))
	assert.False(t, stderrors.Is(err, ErrInvalidDecimalEncoding))

	wrapped := fmt.Errorf("hash order: %w", err)
	assert.True(t, stderrors.Is(wrapped, ErrValueOutOfRange))
	assert.Equal(t, "fee_amount", FieldOf(wrapped))
}

func TestError_CopyDoesNotMutateSentinel(t *testing.T) {
	_ = ErrSchemeMismatch.WithField("revision").WithDetail("scheme", "v1")

	assert.Empty(t, ErrSchemeMismatch.Field)
	assert.Nil(t, ErrSchemeMismatch.Details)
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := stderrors.New("short buffer")
	err := Wrap(ErrKeyDerivationFailure, cause)

	assert.ErrorIs(t, err, cause)
	assert.NotEmpty(t, err.Stack)
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	biz := ErrSigningFailure.WithMessage("zero key")
	assert.Same(t, biz, FromError(fmt.Errorf("ctx: %w", biz)))

	plain := FromError(stderrors.New("plain"))
	require.NotNil(t, plain)
	assert.Equal(t, "INTERNAL_ERROR", plain.Code)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, "SCHEME_MISMATCH", CodeOf(ErrSchemeMismatch))
	assert.Equal(t, "INTERNAL_ERROR", CodeOf(stderrors.New("x")))
}

func TestError_JSON(t *testing.T) {
	err := ErrInvalidDecimalEncoding.WithField("amount").WithDetail("input", "+4")
	s := err.JSON()

	assert.Contains(t, s, `"code":"INVALID_DECIMAL_ENCODING"`)
	assert.Contains(t, s, `"field":"amount"`)
	assert.Contains(t, s, `"input":"+4"`)
	assert.Contains(t, s, `"error":"INVALID_DECIMAL_ENCODING: amount: malformed decimal value"`)
}
