package controller

import (
	"marketplace-matching-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)

	matching := api.Group("/matching")
	newAuctionRoutesHandler(matching, services, validate)
	newBidRoutesHandler(matching, services, validate)
	newSessionRoutesHandler(matching, services, validate)
}
