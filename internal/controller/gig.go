package controller

import (
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/middleware"
	"gig-marketplace-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type gigRoutesHandler struct {
	gigService service.Gig
	validate   *validator.Validate
}

func newGigRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, jwtSecret []byte) *gigRoutesHandler {
	h := &gigRoutesHandler{gigService: services.Gig, validate: v}
	auth := middleware.Authenticate(jwtSecret)

	outer.GET("/gigs", h.GetOpenGigs)
	outer.POST("/gigs/new", h.PostGig, auth)
	outer.GET("/gigs/my", h.GetMyGigs, auth)
	outer.GET("/gigs/:gigId", h.GetGig)
	outer.DELETE("/gigs/:gigId", h.DeleteGig, auth)

	return h
}

type postGigInput struct {
	Title       string  `json:"title" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"required,min=10"`
	Budget      float64 `json:"budget" validate:"gte=0"`
}

// /gigs/new
func (h *gigRoutesHandler) PostGig(c echo.Context) error {
	var input postGigInput
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

	model := &entity.CreateGigInput{
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		OwnerId:     callerId(c),
	}

	gig, err := h.gigService.CreateGig(c.Request().Context(), model)
	if err != nil {
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}

	if e := c.JSON(http.StatusCreated, gig); e != nil {
		return e
	}

	return nil
}

type getOpenGigsInput struct {
	Q      string `query:"q"`
	Limit  int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset int32  `query:"offset" validate:"gte=0"`
}

// /gigs
func (h *gigRoutesHandler) GetOpenGigs(c echo.Context) error {
	input := getOpenGigsInput{Limit: defaultLimit, Offset: defaultOffset}
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

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	gigs, err := h.gigService.GetOpenGigs(c.Request().Context(), input.Q, pg)
	if err != nil {
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}

	if e := c.JSON(http.StatusOK, gigs); e != nil {
		return e
	}

	return nil
}

// /gigs/my
func (h *gigRoutesHandler) GetMyGigs(c echo.Context) error {
	input := getOpenGigsInput{Limit: defaultLimit, Offset: defaultOffset}
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

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	gigs, err := h.gigService.GetUserGigs(c.Request().Context(), callerId(c), pg)
	if err != nil {
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}

	if e := c.JSON(http.StatusOK, gigs); e != nil {
		return e
	}

	return nil
}

// /gigs/:gigId
func (h *gigRoutesHandler) GetGig(c echo.Context) error {
	gig, err := h.gigService.GetGigById(c.Request().Context(), c.Param("gigId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, gig); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrGigNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no gig with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /gigs/:gigId (DELETE)
func (h *gigRoutesHandler) DeleteGig(c echo.Context) error {
	err := h.gigService.DeleteGig(c.Request().Context(), c.Param("gigId"), callerId(c))
	if err == nil {
		if e := c.JSON(http.StatusOK, map[string]string{"message": "Gig deleted successfully"}); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrGigNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no gig with given id"}); e != nil {
			return e
		}
	case service.ErrNotGigOwner:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the gig owner can delete it"}); e != nil {
			return e
		}
	case service.ErrGigCanNotBeDeleted:
		if e := c.JSON(http.StatusConflict, errorResponse{"Gig has bids or is assigned and can't be deleted"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
