package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidErr("bad", nil)))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(UnauthorizedErr("no")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ForbiddenErr("no")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFoundErr("missing")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ConflictErr("dup")))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(UnprocessableErr("insufficient_balance", "not enough")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Wrap(errors.New("boom"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestWrapUnwrap(t *testing.T) {
	base := errors.New("db gone")
	wrapped := Wrap(base)
	require.NotNil(t, wrapped)
	assert.ErrorIs(t, wrapped, base)
	assert.Nil(t, Wrap(nil))
}

func TestAsThroughWrapping(t *testing.T) {
	inner := UnprocessableErr("payout_method_missing", "Set a payout method first.")
	outer := fmt.Errorf("request payout: %w", inner)

	ae, ok := As(outer)
	require.True(t, ok)
	assert.Equal(t, Unprocessable, ae.Kind)
	assert.Equal(t, "payout_method_missing", PublicCode(outer))
	assert.Equal(t, "Set a payout method first.", PublicMessage(outer))
}

func TestPublicMessageFallback(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred.", PublicMessage(errors.New("internal detail")))
	assert.Equal(t, "An unexpected error occurred.", PublicMessage(Wrap(errors.New("internal detail"))))
	assert.Empty(t, PublicCode(errors.New("plain")))
}
