package reject

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsProblemUnwrapsDomainError(t *testing.T) {
	problem := InvalidStateProblem("inning already closed")
	err := fmt.Errorf("adjudicating: %w", Abort(problem))

	withTrace := AsProblem(err)
	assert.Equal(t, problem, withTrace.Problem)
	assert.Equal(t, http.StatusConflict, withTrace.Problem.Status)
}

func TestAsProblemFallsBackToUnexpected(t *testing.T) {
	withTrace := AsProblem(errors.New("connection refused"))
	assert.Equal(t, http.StatusInternalServerError, withTrace.Problem.Status)
}
