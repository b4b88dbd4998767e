package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("poem %d not found", 7)

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))
	assert.Equal(t, "poem 7 not found", err.Error())
}

func TestError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("get poem: %w", NotFound("missing"))

	assert.True(t, Is(err, ErrNotFound))
}

func TestLoadFailure_KeepsCause(t *testing.T) {
	err := LoadFailure(io.ErrUnexpectedEOF, "poems.txt")

	assert.True(t, Is(err, ErrLoadFailure))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "poems.txt")
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeEmptyCorpus, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeLoadFailure, http.StatusServiceUnavailable},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	err := ErrValidation.WithDetails(map[string]string{"author": "is required"})

	assert.Nil(t, ErrValidation.Details)
	assert.NotNil(t, err.Details)
	assert.True(t, Is(err, ErrValidation))
}
