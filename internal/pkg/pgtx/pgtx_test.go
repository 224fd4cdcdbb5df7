package pgtx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)")))
	assert.True(t, IsRetryable(errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)")))
	assert.True(t, IsRetryable(errors.New("ERROR: deadlock detected (SQLSTATE 40P01)")))
}

func TestRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := Retry(func() error {
		calls++
		if calls < 2 {
			return errors.New("SQLSTATE 40001")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryDoesNotRetryDomainErrors(t *testing.T) {
	calls := 0
	boom := errors.New("inning already closed")
	err := Retry(func() error {
		calls++
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Retry(func() error {
		calls++
		return errors.New("SQLSTATE 40001")
	})
	assert.Error(t, err)
	assert.Equal(t, maxAttempts, calls)
}
