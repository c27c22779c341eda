package controller

import (
	"gig-marketplace-api/internal/notify"
	"gig-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, hub *notify.Hub, jwtSecret []byte) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newAuthRoutesHandler(api, services, validate, jwtSecret)
	newGigRoutesHandler(api, services, validate, jwtSecret)
	newBidRoutesHandler(api, services, validate, jwtSecret)

	api.GET("/notifications/ws", hub.ServeWS(jwtSecret))
}
