package controller

import (
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v}

	outer.POST("/auction-bids", h.PostBid)
	outer.GET("/auction-bids", h.GetProviderBids)
	outer.GET("/auction-bids/:bidId", h.GetBid)
	outer.PATCH("/auction-bids/:bidId/status", h.UpdateBidStatus)
	outer.GET("/auctions/:auctionId/bids", h.GetAuctionBids)

	return h
}

type postBidInput struct {
	AuctionId              string                 `json:"auctionId" validate:"required,uuid4"`
	ProposedPrice          decimal.Decimal        `json:"proposedPrice"`
	EstimatedDuration      *decimal.Decimal       `json:"estimatedDuration"`
	WorkPlan               string                 `json:"workPlan" validate:""`
	PortfolioItems         []entity.PortfolioItem `json:"portfolioItems"`
	ProposedStartDate      string                 `json:"proposedStartDate" validate:"omitempty,datetime=2006-01-02"`
	ProposedCompletionDate string                 `json:"proposedCompletionDate" validate:"omitempty,datetime=2006-01-02"`
	AdditionalComment      string                 `json:"additionalComment" validate:"max=1000"`
}

// /auction-bids
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	uid := userId(c)
	if uid == "" {
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Missing X-User-Id header"}); e != nil {
			return e
		}

		return nil
	}

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

	if input.ProposedPrice.IsNegative() || input.ProposedPrice.IsZero() {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"'proposedPrice': should be greater than 0"}); e != nil {
			return e
		}

		return nil
	}

	model := &entity.CreateBidInput{
		AuctionId: input.AuctionId, ProposedPrice: input.ProposedPrice,
		EstimatedDuration: input.EstimatedDuration, WorkPlan: input.WorkPlan,
		PortfolioItems: input.PortfolioItems, ProposedStartDate: input.ProposedStartDate,
		ProposedCompletionDate: input.ProposedCompletionDate, AdditionalComment: input.AdditionalComment,
	}

	bid, err := h.bidService.CreateBid(c.Request().Context(), uid, model)
	if err == nil {
		if e := c.JSON(http.StatusCreated, bid); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrProviderProfileNotFound:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"There is no provider profile for given user"}); e != nil {
			return e
		}
	case service.ErrAuctionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no auction with given id"}); e != nil {
			return e
		}
	case service.ErrAuctionNotAcceptingBids:
		if e := c.JSON(http.StatusConflict, errorResponse{"Auction is not accepting bids"}); e != nil {
			return e
		}
	case service.ErrBidAlreadyExists:
		if e := c.JSON(http.StatusConflict, errorResponse{"You have already placed a bid on this auction"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getProviderBidsInput struct {
	ProviderId string `query:"providerId" validate:"omitempty,uuid4"`
	Status     string `query:"status" validate:""`
	Page       int    `query:"page" validate:"gte=0"`
	Limit      int    `query:"limit" validate:"gte=0,lte=100"`
}

// /auction-bids
func (h *bidRoutesHandler) GetProviderBids(c echo.Context) error {
	input := getProviderBidsInput{Page: defaultPage, Limit: defaultLimit}
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

	// Callers pass their provider id explicitly or fall back to the
	// gateway identity; the filter matches either form.
	providerId := input.ProviderId
	if providerId == "" {
		providerId = userId(c)
	}
	if providerId == "" {
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Missing X-User-Id header"}); e != nil {
			return e
		}

		return nil
	}

	bids, err := h.bidService.FindBids(c.Request().Context(), providerId, input.Status, input.Page, input.Limit)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}
	if e := c.JSON(http.StatusOK, bids); e != nil {
		return e
	}

	return nil
}

type bidIdInput struct {
	BidId string `param:"bidId" validate:"required,uuid4"`
}

// /auction-bids/:bidId
func (h *bidRoutesHandler) GetBid(c echo.Context) error {
	input := bidIdInput{BidId: c.Param("bidId")}
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	bid, err := h.bidService.GetBidById(c.Request().Context(), input.BidId)
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
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type updateBidStatusInput struct {
	BidId  string `param:"bidId" validate:"required,uuid4"`
	Status string `json:"status" validate:"required,oneof=under_review shortlisted rejected"`
	Reason string `json:"reason" validate:"max=500"`
}

// /auction-bids/:bidId/status
func (h *bidRoutesHandler) UpdateBidStatus(c echo.Context) error {
	var input updateBidStatusInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.BidId = c.Param("bidId")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	bid, err := h.bidService.UpdateBidStatus(c.Request().Context(), input.BidId, input.Status, input.Reason)
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
	case service.ErrBidStatusNotAllowed:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Bid status can't be set to given value"}); e != nil {
			return e
		}
	case service.ErrSelectedBidImmutable:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Selected bid can't change status"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /auctions/:auctionId/bids
func (h *bidRoutesHandler) GetAuctionBids(c echo.Context) error {
	input := auctionIdInput{AuctionId: c.Param("auctionId")}
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	bids, err := h.bidService.ListBidsByAuction(c.Request().Context(), input.AuctionId)
	if err == nil {
		if e := c.JSON(http.StatusOK, bids); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrAuctionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no auction with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
