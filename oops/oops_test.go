package oops

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var SampleErrorValue = errors.New("some error occurred that you should handle")

type SampleErrorType struct {
	Message string
}

func (s SampleErrorType) Error() string {
	return s.Message
}

func init() {
	zerolog.ErrorStackMarshaler = ZerologStackMarshaler
}

func TestNew(t *testing.T) {
	t.Run("errors.Is", func(t *testing.T) {
		err := New(SampleErrorValue, "test error")
		if !errors.Is(err, SampleErrorValue) {
			t.Fatal("error did not appear to wrap the sample value")
		}
	})
	t.Run("errors.As", func(t *testing.T) {
		err := New(SampleErrorType{Message: "some fancy error type has occurred"}, "test error")
		var sErr SampleErrorType
		if !errors.As(err, &sErr) {
			t.Fatal("error did not appear to wrap the sample error type")
		}
	})
	t.Run("kind", func(t *testing.T) {
		err := New(ErrImageTooLarge, "image descriptor %dx%d", 6000, 6000)
		assert.ErrorIs(t, err, ErrImageTooLarge)
		assert.NotErrorIs(t, err, ErrIO)
		assert.Equal(t, "image descriptor 6000x6000: image too large", err.Error())
	})
	t.Run("stack starts at caller", func(t *testing.T) {
		err := New(SampleErrorValue, "test error").(*Error)
		if assert.NotEmpty(t, err.Stack) {
			assert.True(t, strings.HasSuffix(err.Stack[0].Function, "TestNew.func4"), err.Stack[0].Function)
		}
	})
}

func TestIO(t *testing.T) {
	err := IO(SampleErrorValue, "reading block")
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, SampleErrorValue)
	assert.NotErrorIs(t, err, ErrUnexpectedEndOfStream)
}
