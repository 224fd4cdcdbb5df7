// Package pgtx runs game mutations as serializable Postgres transactions.
// Serialization failures are retried with backoff; uniqueness constraints
// on the hot rows (pin, membership, turn order, one open half per game)
// are the correctness backstop when retries run out.
package pgtx

import (
	"database/sql"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const maxAttempts = 3

func InSerializableTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return Retry(func() error {
		return db.Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
	})
}

// Retry reruns attempt while it fails with a retryable serialization
// error, up to maxAttempts total runs.
func Retry(attempt func() error) error {
	b := &backoff.Backoff{
		Min:    10 * time.Millisecond,
		Max:    250 * time.Millisecond,
		Jitter: true,
	}

	var err error
	for i := 0; i < maxAttempts; i++ {
		err = attempt()
		if err == nil || !IsRetryable(err) {
			return err
		}
		log.Warn().Err(err).Msg("Retrying transaction after serialization failure")
		time.Sleep(b.Duration())
	}
	return err
}

// IsRetryable matches Postgres serialization_failure and deadlock_detected
// errors as surfaced through the pgx driver.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") ||
		strings.Contains(msg, "SQLSTATE 40P01") ||
		strings.Contains(msg, "deadlock detected")
}
