package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(InvalidArgument, "capacity must be positive")
	require.Error(t, err)
	assert.Equal(t, "capacity must be positive", err.Error())

	var e *Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, InvalidArgument, e.Code())
}

func TestWrap(t *testing.T) {
	t.Run("Wraps cause", func(t *testing.T) {
		cause := fmt.Errorf("bucket count mismatch")
		err := Wrap(cause, InvalidState, "pool invariant violated")

		assert.Equal(t, "pool invariant violated: bucket count mismatch", err.Error())
		assert.Equal(t, cause, stderrors.Unwrap(err))
	})

	t.Run("Nil cause returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, InvalidArgument, "ignored"))
	})
}

func TestWithFields(t *testing.T) {
	t.Run("Adds fields to structured error", func(t *testing.T) {
		err := WithFields(New(InvalidArgument, "target size must be non-negative"), Fields{
			"target": -1,
		})

		var e *Error
		require.True(t, stderrors.As(err, &e))
		assert.Equal(t, InvalidArgument, e.Code())
		assert.Equal(t, -1, e.Fields()["target"])
		assert.Contains(t, err.Error(), "target=-1")
	})

	t.Run("Merges with existing fields", func(t *testing.T) {
		err := WithFields(New(InvalidArgument, "bad request"), Fields{"a": 1})
		err = WithFields(err, Fields{"b": 2})

		var e *Error
		require.True(t, stderrors.As(err, &e))
		assert.Equal(t, 1, e.Fields()["a"])
		assert.Equal(t, 2, e.Fields()["b"])
	})

	t.Run("Field order is deterministic", func(t *testing.T) {
		err := WithFields(New(Unknown, "msg"), Fields{"b": 2, "a": 1, "c": 3})
		assert.Equal(t, "msg [a=1 b=2 c=3]", err.Error())
	})

	t.Run("Foreign error becomes Unknown", func(t *testing.T) {
		err := WithFields(fmt.Errorf("plain"), Fields{"k": "v"})
		assert.Equal(t, Unknown, Code(err))
	})

	t.Run("Nil error returns nil", func(t *testing.T) {
		assert.NoError(t, WithFields(nil, Fields{"k": "v"}))
	})
}

func TestIs(t *testing.T) {
	err := New(InvalidArgument, "one message")

	assert.True(t, stderrors.Is(err, New(InvalidArgument, "different message")))
	assert.False(t, stderrors.Is(err, New(InvalidState, "different code")))
	assert.False(t, stderrors.Is(err, fmt.Errorf("not ours")))
}

func TestCode(t *testing.T) {
	assert.Equal(t, Timeout, Code(New(Timeout, "deadline passed")))
	assert.Equal(t, Unknown, Code(fmt.Errorf("plain error")))
}

func TestCheckContext(t *testing.T) {
	t.Run("Live context passes", func(t *testing.T) {
		assert.NoError(t, CheckContext(context.Background(), "search"))
	})

	t.Run("Canceled context fails with Canceled code", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := CheckContext(ctx, "search")
		require.Error(t, err)
		assert.Equal(t, Canceled, Code(err))
		assert.True(t, stderrors.Is(err, context.Canceled))
	})
}
