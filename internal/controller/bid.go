package controller

import (
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/middleware"
	"gig-marketplace-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, jwtSecret []byte) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v}
	auth := middleware.Authenticate(jwtSecret)

	outer.POST("/bids/new", h.PostBid, auth)
	outer.GET("/bids/my", h.GetMyBids, auth)
	outer.GET("/bids/:gigId/list", h.GetGigBids, auth)
	outer.PATCH("/bids/:bidId/hire", h.HireBid, auth)

	return h
}

type postBidInput struct {
	GigId   string  `json:"gigId" validate:"required,max=100"`
	Price   float64 `json:"price" validate:"required,gt=0"`
	Message string  `json:"message" validate:"max=500"`
}

// /bids/new
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	var input postBidInput
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

	model := &entity.CreateBidInput{
		GigId:        input.GigId,
		FreelancerId: callerId(c),
		Price:        input.Price,
		Message:      input.Message,
	}

	bid, err := h.bidService.PlaceBid(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusCreated, bid); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrGigNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no gig with given id"}); e != nil {
			return e
		}
	case service.ErrOwnerCanNotBid:
		if e := c.JSON(http.StatusForbidden, errorResponse{"You can't bid on your own gig"}); e != nil {
			return e
		}
	case service.ErrBiddingClosed:
		if e := c.JSON(http.StatusConflict, errorResponse{"Bidding is closed for this gig"}); e != nil {
			return e
		}
	case service.ErrDuplicateBid:
		if e := c.JSON(http.StatusConflict, errorResponse{"You have already placed a bid on this gig"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /bids/:bidId/hire
func (h *bidRoutesHandler) HireBid(c echo.Context) error {
	bid, err := h.bidService.HireBid(c.Request().Context(), c.Param("bidId"), callerId(c))
	if err == nil {
		if e := c.JSON(http.StatusOK, bid); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrBidNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no bid with given id"}); e != nil {
			return e
		}
	case service.ErrGigNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no more gig for this bid"}); e != nil {
			return e
		}
	case service.ErrNotGigOwner:
		if e := c.JSON(http.StatusForbidden, errorResponse{"You are not authorized to hire for this gig"}); e != nil {
			return e
		}
	case service.ErrGigAlreadyAssigned:
		if e := c.JSON(http.StatusConflict, errorResponse{"This gig has already been assigned"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type listBidsInput struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=50"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

// /bids/my
func (h *bidRoutesHandler) GetMyBids(c echo.Context) error {
	input := listBidsInput{Limit: defaultLimit, Offset: defaultOffset}
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
	bids, err := h.bidService.GetUserBids(c.Request().Context(), callerId(c), pg)
	if err != nil {
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}

	if e := c.JSON(http.StatusOK, bids); e != nil {
		return e
	}

	return nil
}

// /bids/:gigId/list
func (h *bidRoutesHandler) GetGigBids(c echo.Context) error {
	input := listBidsInput{Limit: defaultLimit, Offset: defaultOffset}
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
	bids, err := h.bidService.GetGigBids(c.Request().Context(), c.Param("gigId"), callerId(c), pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, bids); e != nil {
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
		if e := c.JSON(http.StatusForbidden, errorResponse{"You are not allowed to view these bids"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
