package reject

import "errors"

// DomainError carries a Problem through a transaction callback so the
// rollback path can still surface the precise failure to the caller.
type DomainError struct {
	Problem Problem
}

func (e DomainError) Error() string {
	if e.Problem.Detail != "" {
		return e.Problem.Title + ": " + e.Problem.Detail
	}
	return e.Problem.Title
}

// Abort wraps a Problem as an error, rolling back the surrounding
// transaction.
func Abort(problem Problem) error {
	return DomainError{Problem: problem}
}

// AsProblem unwraps a DomainError, or falls back to an unexpected-error
// Problem for infrastructure failures.
func AsProblem(err error) *ProblemWithTrace {
	var domainErr DomainError
	if errors.As(err, &domainErr) {
		return &ProblemWithTrace{Problem: domainErr.Problem, Cause: err}
	}
	return &ProblemWithTrace{Problem: UnexpectedProblem(err), Cause: err}
}
