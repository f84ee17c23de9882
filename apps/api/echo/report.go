package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/akshaywebstep/synco-sub001/core"
	"github.com/akshaywebstep/synco-sub001/core/booking"
	"github.com/akshaywebstep/synco-sub001/core/report"
)

// Response is the envelope wrapping every API payload.
type Response struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type reportApi struct {
	svc        *report.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerReportAPI(g *echo.Group, svc *report.Service, validate *validator.Validate, translator ut.Translator) {
	api := reportApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	rg := g.Group("/reports")
	rg.GET("/bookings", api.bookings)
	rg.POST("/bookings/email", api.emailBookings)
}

// Handlers

func (api *reportApi) bookings(ctx echo.Context) error {
	filter := new(booking.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewValidationError(errors.New("invalid query parameters"))
	}
	if err := filter.Validate(api.validate); err != nil {
		return err
	}

	rep, err := api.svc.Generate(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "generating booking report")
	}

	return ctx.JSON(http.StatusOK, Response{
		Status:  true,
		Message: "Booking report fetched successfully",
		Data:    rep,
	})
}

func (api *reportApi) emailBookings(ctx echo.Context) error {
	var data EmailReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailReportRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.Email(ctx.Request().Context(), data.QueryFilter, data.Email); err != nil {
		return errors.Wrap(err, "emailing booking report")
	}

	return ctx.JSON(http.StatusOK, Response{
		Status:  true,
		Message: "Booking report email queued",
	})
}

type EmailReportRequest struct {
	booking.QueryFilter
	Email string `json:"email" validate:"required,email"`
}

func (er *EmailReportRequest) Validate(validate *validator.Validate) error {
	er.Email = core.CleanString(er.Email, true /* lower */)
	er.QueryFilter.Clean()
	return validate.Struct(er)
}
