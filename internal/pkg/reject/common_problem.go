package reject

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	genericUnexpectedError string = "error.generic.unexpected"
	invalidRequest         string = "error.generic.invalid-request-payload"
	cannotParseBody        string = "error.generic.cannot-parse-payload"
	genericNotFound        string = "error.generic.not-found"
	databaseError          string = "error.data.access"

	insufficientChips string = "error.chips.insufficient"
	potUnderflow      string = "error.pot.underflow"
	notAdmin          string = "error.table.not-admin"
)

func BodyParseProblem() Problem {
	return NewProblem().
		WithTitle("Cannot read payload").
		WithStatus(http.StatusBadRequest).
		WithCode(cannotParseBody).
		Build()
}

func ValidationProblem(detail string) Problem {
	return NewProblem().
		WithTitle("Invalid request payload").
		WithStatus(http.StatusBadRequest).
		WithDetail(detail).
		WithCode(invalidRequest).
		Build()
}

func NotFoundProblem(detail string) Problem {
	return NewProblem().
		WithTitle("Record not found").
		WithStatus(http.StatusNotFound).
		WithDetail(detail).
		WithCode(genericNotFound).
		Build()
}

func InsufficientChipsProblem() Problem {
	return NewProblem().
		WithTitle("Insufficient chips").
		WithStatus(http.StatusBadRequest).
		WithCode(insufficientChips).
		Build()
}

func PotUnderflowProblem() Problem {
	return NewProblem().
		WithTitle("Pot does not hold that many chips").
		WithStatus(http.StatusBadRequest).
		WithCode(potUnderflow).
		Build()
}

func NotAdminProblem(detail string) Problem {
	return NewProblem().
		WithTitle("Only the table creator may do this").
		WithStatus(http.StatusForbidden).
		WithDetail(detail).
		WithCode(notAdmin).
		Build()
}

func DatabaseProblem(err error) Problem {
	log.Warn().Err(err).Msg("Database error while handling request")
	return NewProblem().
		WithTitle("Trouble fetching data from database").
		WithStatus(http.StatusInternalServerError).
		WithCode(databaseError).
		Build()
}

func UnexpectedProblem(err error) Problem {
	log.Warn().Err(err).Msg("Unexpected error while handling request: " + err.Error())
	return NewProblem().
		WithTitle("Unexpected error").
		WithStatus(http.StatusInternalServerError).
		WithCode(genericUnexpectedError).
		Build()
}
