package rfcli_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/rfcli"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := rfcli.Errorf(rfcli.ENOTFOUND, "rfc %d not found", 8446)

	assert.Equal(t, rfcli.ENOTFOUND, rfcli.ErrorCode(err))
	assert.Equal(t, "rfc 8446 not found", rfcli.ErrorMessage(err))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := rfcli.Wrap(rfcli.EIO, cause, "save entry")

	assert.Equal(t, rfcli.EIO, rfcli.ErrorCode(err))
	assert.Equal(t, "save entry: disk full", rfcli.ErrorMessage(err))
	assert.ErrorIs(t, err, cause)
}

func TestErrorCode_WrappedApplicationError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", rfcli.Errorf(rfcli.EFETCH, "boom"))

	assert.Equal(t, rfcli.EFETCH, rfcli.ErrorCode(err))
}

func TestErrorCode_ContextErrors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, rfcli.ETIMEOUT, rfcli.ErrorCode(context.DeadlineExceeded))
	assert.Equal(t, rfcli.ECANCELED, rfcli.ErrorCode(fmt.Errorf("get: %w", context.Canceled)))
	assert.Equal(t, rfcli.EINTERNAL, rfcli.ErrorCode(errors.New("other")))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, rfcli.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, rfcli.ErrorMessage(nil))
}
