package game

import (
	"crypto/rand"
	"errors"
	"strconv"
)

const pinLength = 6

var errPinExhausted = errors.New("could not allocate a unique pin")

// generatePin draws a random 6-digit join code from the system entropy
// source, so restarts never replay a pin sequence. The draw is not the
// correctness guarantee; the unique index on game.pin is.
func generatePin() string {
	buf := make([]byte, pinLength)
	if _, err := rand.Read(buf); err != nil {
		panic("pin entropy source unavailable")
	}
	for i := range buf {
		buf[i] = '0' + buf[i]%10
	}
	return string(buf)
}

// allocatePin retries the draw against taken until it finds a free code or
// exhausts maxAttempts.
func allocatePin(maxAttempts int, taken func(pin string) (bool, error)) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = 100
	}
	for i := 0; i < maxAttempts; i++ {
		pin := generatePin()
		exists, err := taken(pin)
		if err != nil {
			return "", err
		}
		if !exists {
			return pin, nil
		}
	}
	return "", errPinExhausted
}

func isNumericPin(pin string) bool {
	if len(pin) != pinLength {
		return false
	}
	_, err := strconv.Atoi(pin)
	return err == nil
}
