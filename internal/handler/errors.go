// Package handler implements the HTTP endpoints: the public booking and
// availability API, the guest data-rights API and the admin back office.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/repository"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/service"
)

// jsonError translates domain errors to HTTP responses.  Conflicts (date
// collisions, wrong-state transitions, duplicate reports) are 409,
// input rule failures 422, missing entities 404; everything else is a
// 500 with a generic message so internals stay private.
func jsonError(c echo.Context, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": ve.Message, "field": ve.Field})
	}
	var ite *model.InvalidTransitionError
	if errors.As(err, &ite) {
		return c.JSON(http.StatusConflict, echo.Map{"error": ite.Error()})
	}
	switch {
	case errors.Is(err, repository.ErrDatesUnavailable),
		errors.Is(err, repository.ErrDamageReportExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrPropertyNotFound),
		errors.Is(err, repository.ErrCustomerNotFound),
		errors.Is(err, repository.ErrBlockedDateNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
