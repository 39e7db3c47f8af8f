package capescout_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jbekker/capescout"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns empty string for nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", capescout.ErrorCode(nil))
	})

	t.Run("returns the code of a domain error", func(t *testing.T) {
		t.Parallel()
		err := capescout.Errorf(capescout.ENOTFOUND, "area not found")
		assert.Equal(t, capescout.ENOTFOUND, capescout.ErrorCode(err))
	})

	t.Run("returns internal code for non-domain errors", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, capescout.EINTERNAL, capescout.ErrorCode(errors.New("boom")))
	})

	t.Run("unwraps wrapped domain errors", func(t *testing.T) {
		t.Parallel()
		err := capescout.Errorf(capescout.EUNAVAILABLE, "fetch failed")
		assert.Equal(t, capescout.EUNAVAILABLE, capescout.ErrorCode(fmt.Errorf("crawl sea-point: %w", err)))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns empty string for nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", capescout.ErrorMessage(nil))
	})

	t.Run("returns the message of a domain error", func(t *testing.T) {
		t.Parallel()
		err := capescout.Errorf(capescout.EINVALID, "price must be positive")
		assert.Equal(t, "price must be positive", capescout.ErrorMessage(err))
	})

	t.Run("returns generic message for non-domain errors", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Internal error.", capescout.ErrorMessage(errors.New("boom")))
	})
}

func TestError_Error(t *testing.T) {
	t.Parallel()
	err := capescout.Errorf(capescout.ECONFLICT, "property %q already exists", "abc")
	assert.Equal(t, `capescout error: code=conflict message=property "abc" already exists`, err.Error())
}
