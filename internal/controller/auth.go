package controller

import (
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/middleware"
	"gig-marketplace-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type authRoutesHandler struct {
	authService service.Auth
	validate    *validator.Validate
}

func newAuthRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, jwtSecret []byte) *authRoutesHandler {
	h := &authRoutesHandler{authService: services.Auth, validate: v}
	outer.POST("/auth/register", h.Register)
	outer.POST("/auth/login", h.Login)
	outer.GET("/auth/me", h.Me, middleware.Authenticate(jwtSecret))

	return h
}

type registerInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type authOutput struct {
	Token string                  `json:"token"`
	User  *entity.UserOutputModel `json:"user"`
}

// /auth/register
func (h *authRoutesHandler) Register(c echo.Context) error {
	var input registerInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	token, user, err := h.authService.Register(c.Request().Context(), input.Name, input.Email, input.Password)
	if err == nil {
		if e := c.JSON(http.StatusCreated, authOutput{Token: token, User: user}); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrEmailTaken:
		if e := c.JSON(http.StatusConflict, errorResponse{"User with this email already exists"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// /auth/login
func (h *authRoutesHandler) Login(c echo.Context) error {
	var input loginInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), input.Email, input.Password)
	if err == nil {
		if e := c.JSON(http.StatusOK, authOutput{Token: token, User: user}); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrInvalidCredentials:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Invalid email or password"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /auth/me
func (h *authRoutesHandler) Me(c echo.Context) error {
	user, err := h.authService.GetUserById(c.Request().Context(), callerId(c))
	if err == nil {
		if e := c.JSON(http.StatusOK, user); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no user with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
