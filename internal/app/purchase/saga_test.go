package purchase

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSagaCompensatesNewestFirst(t *testing.T) {
	sg := newSaga(logrus.NewEntry(logrus.StandardLogger()))
	var order []string
	undoErr := errors.New("undo failed")

	sg.record("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	sg.record("second", func(context.Context) error {
		order = append(order, "second")
		return undoErr
	})
	sg.record("third", func(context.Context) error {
		order = append(order, "third")
		return nil
	})

	err := sg.compensate(context.Background())
	assert.ErrorIs(t, err, undoErr)
	assert.Equal(t, []string{"third", "second", "first"}, order)

	assert.NoError(t, sg.compensate(context.Background()))
	assert.Len(t, order, 3)
}

func TestFailedKeepsTypedErrors(t *testing.T) {
	typed := newError(CodePackageNotFound, "Package not found")
	assert.Same(t, typed, failed(typed))

	wrapped := failed(errors.New("boom"))
	assert.Equal(t, CodePurchaseFailed, CodeOf(wrapped))
	assert.Equal(t, CodeBelowMinimum, CodeOf(newError(CodeBelowMinimum, "x")))
}
