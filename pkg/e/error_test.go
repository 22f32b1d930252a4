package e

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindExternal:     http.StatusBadRequest,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, (&Error{Kind: kind}).HTTPStatus())
	}
}

func TestWrapPassesThroughDomainErrors(t *testing.T) {
	orig := NotFound("product")
	wrapped := Wrap(fmt.Errorf("loading product: %w", orig))
	assert.Same(t, orig, wrapped)
}

func TestWrapPromotesPlainErrors(t *testing.T) {
	err := Wrap(errors.New("boom"))
	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, "internal server error", err.Msg)
	assert.EqualError(t, errors.Unwrap(err), "boom")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil))
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", Conflict("already reviewed"))
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "product not found", NotFound("product").Error())
	assert.Equal(t, "price must be positive", Validation("price must be %s", "positive").Error())

	ext := External("gateway rejected charge", errors.New("status 502"))
	assert.Equal(t, "gateway rejected charge: status 502", ext.Error())
}
