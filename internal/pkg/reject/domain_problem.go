package reject

import "net/http"

// Domain failures of the game engine. Every state-mutating operation
// surfaces one of these; none are silent no-ops.
const (
	codeNotFound            string = "error.game.not-found"
	codeForbidden           string = "error.game.forbidden"
	codeInvalidState        string = "error.game.invalid-state"
	codeConflict            string = "error.game.conflict"
	codeLimitExceeded       string = "error.game.limit-exceeded"
	codeAllocationExhausted string = "error.game.allocation-exhausted"
	codeValidation          string = "error.game.validation"
)

func GameNotFoundProblem(detail string) Problem {
	return NewProblem().
		WithTitle("Not found").
		WithStatus(http.StatusNotFound).
		WithCode(codeNotFound).
		WithDetail(detail).
		Build()
}

func ForbiddenProblem(detail string) Problem {
	return NewProblem().
		WithTitle("Forbidden").
		WithStatus(http.StatusForbidden).
		WithCode(codeForbidden).
		WithDetail(detail).
		Build()
}

func InvalidStateProblem(detail string) Problem {
	return NewProblem().
		WithTitle("Operation not legal in current state").
		WithStatus(http.StatusConflict).
		WithCode(codeInvalidState).
		WithDetail(detail).
		Build()
}

func ConflictProblem(detail string) Problem {
	return NewProblem().
		WithTitle("Conflict").
		WithStatus(http.StatusConflict).
		WithCode(codeConflict).
		WithDetail(detail).
		Build()
}

func LimitExceededProblem(detail string) Problem {
	return NewProblem().
		WithTitle("Limit exceeded").
		WithStatus(http.StatusUnprocessableEntity).
		WithCode(codeLimitExceeded).
		WithDetail(detail).
		Build()
}

func AllocationExhaustedProblem(detail string) Problem {
	return NewProblem().
		WithTitle("Allocation exhausted").
		WithStatus(http.StatusServiceUnavailable).
		WithCode(codeAllocationExhausted).
		WithDetail(detail).
		Build()
}

func ValidationProblem(detail string) Problem {
	return NewProblem().
		WithTitle("Invalid value").
		WithStatus(http.StatusBadRequest).
		WithCode(codeValidation).
		WithDetail(detail).
		Build()
}
