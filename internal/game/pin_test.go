package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePin(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.True(t, isNumericPin(generatePin()))
	}
}

func TestGeneratePinDrawsVary(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[generatePin()] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestAllocatePinRetriesCollisions(t *testing.T) {
	collisions := 3
	pin, err := allocatePin(10, func(string) (bool, error) {
		if collisions > 0 {
			collisions--
			return true, nil
		}
		return false, nil
	})
	require.NoError(t, err)
	assert.True(t, isNumericPin(pin))
}

func TestAllocatePinExhausted(t *testing.T) {
	attempts := 0
	_, err := allocatePin(5, func(string) (bool, error) {
		attempts++
		return true, nil
	})
	assert.ErrorIs(t, err, errPinExhausted)
	assert.Equal(t, 5, attempts)
}

func TestAllocatePinPropagatesLookupErrors(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := allocatePin(5, func(string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}
