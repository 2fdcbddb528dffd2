package apperror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_Aggregate(t *testing.T) {
	errs := Validation()
	require.NoError(t, errs.OrNil())

	errs.Add("empty/email", "The email was empty")
	errs.Add("empty/password", "The password was empty")

	err := errs.OrNil()
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errs.Status)
	assert.Equal(t, 2, errs.Len())
	assert.True(t, errs.Has("empty/password"))
	assert.False(t, errs.Has("invalid/email"))
	assert.Equal(t, "empty/email: The email was empty; empty/password: The password was empty", err.Error())
}

func TestAs_Wrapped(t *testing.T) {
	base := Single(http.StatusUnauthorized, "invalid/token", "token is invalid")
	wrapped := fmt.Errorf("verify account: %w", base)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, base, got)

	_, ok = As(fmt.Errorf("boom"))
	assert.False(t, ok)
}
