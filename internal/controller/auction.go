package controller

import (
	"errors"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/service"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

type auctionRoutesHandler struct {
	auctionService service.Auction
	validate       *validator.Validate
}

func newAuctionRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *auctionRoutesHandler {
	h := &auctionRoutesHandler{auctionService: services.Auction, validate: v}

	outer.POST("/auctions", h.PostAuction)
	outer.GET("/auctions", h.GetUserAuctions)
	outer.GET("/auctions/search", h.SearchAuctions)
	outer.GET("/auctions/:auctionId", h.GetAuction)
	outer.PATCH("/auctions/:auctionId/publish", h.PublishAuction)
	outer.POST("/auctions/:auctionId/select-bid/:bidId", h.SelectBid)

	return h
}

type postAuctionInput struct {
	ServiceCategoryId   string           `json:"serviceCategoryId" validate:"omitempty,uuid4"`
	ServiceTitle        string           `json:"serviceTitle" validate:"required,max=255"`
	ServiceDescription  string           `json:"serviceDescription" validate:"required"`
	ServiceRequirements string           `json:"serviceRequirements" validate:""`
	ServiceLocation     string           `json:"serviceLocation" validate:"required"`
	LocationLatitude    *decimal.Decimal `json:"locationLatitude"`
	LocationLongitude   *decimal.Decimal `json:"locationLongitude"`
	PreferredDate       string           `json:"preferredDate" validate:"omitempty,datetime=2006-01-02"`
	PreferredTime       string           `json:"preferredTime" validate:""`
	Deadline            string           `json:"deadline" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	BudgetMin           *decimal.Decimal `json:"budgetMin"`
	BudgetMax           *decimal.Decimal `json:"budgetMax"`
	Photos              []string         `json:"photos"`
	Documents           []string         `json:"documents"`
	AutoSelectEnabled   bool             `json:"autoSelectEnabled"`
	MaxBidsToReceive    *int             `json:"maxBidsToReceive"`
}

// /auctions
func (h *auctionRoutesHandler) PostAuction(c echo.Context) error {
	consumerId := userId(c)
	if consumerId == "" {
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Missing X-User-Id header"}); e != nil {
			return e
		}

		return nil
	}

	var input postAuctionInput
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

	model := &entity.CreateAuctionInput{
		ServiceCategoryId: input.ServiceCategoryId, ServiceTitle: input.ServiceTitle,
		ServiceDescription: input.ServiceDescription, ServiceRequirements: input.ServiceRequirements,
		ServiceLocation: input.ServiceLocation, LocationLatitude: input.LocationLatitude,
		LocationLongitude: input.LocationLongitude, PreferredDate: input.PreferredDate,
		PreferredTime: input.PreferredTime, Deadline: input.Deadline,
		BudgetMin: input.BudgetMin, BudgetMax: input.BudgetMax,
		Photos: input.Photos, Documents: input.Documents,
		AutoSelectEnabled: input.AutoSelectEnabled, MaxBidsToReceive: input.MaxBidsToReceive,
	}

	auction, err := h.auctionService.CreateAuction(c.Request().Context(), consumerId, model)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}
	if e := c.JSON(http.StatusCreated, auction); e != nil {
		return e
	}

	return nil
}

type searchAuctionsInput struct {
	Keyword   string `query:"keyword" validate:""`
	Category  string `query:"category" validate:"omitempty,uuid4"`
	Status    string `query:"status" validate:"omitempty,oneof=draft published bidding reviewing selected expired cancelled"`
	Location  string `query:"location" validate:""`
	BudgetMin string `query:"budgetMin" validate:""`
	BudgetMax string `query:"budgetMax" validate:""`
	Page      int    `query:"page" validate:"gte=0"`
	Limit     int    `query:"limit" validate:"gte=0,lte=100"`
}

// /auctions/search
func (h *auctionRoutesHandler) SearchAuctions(c echo.Context) error {
	input := searchAuctionsInput{Page: defaultPage, Limit: defaultLimit}
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

	filter := &entity.AuctionSearchFilter{
		Keyword: input.Keyword, Category: input.Category,
		Status: input.Status, Location: input.Location,
	}
	var err error
	filter.BudgetMin, err = parseOptionalDecimal(input.BudgetMin)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"'budgetMin': should be a number"}); e != nil {
			return e
		}

		return err
	}
	filter.BudgetMax, err = parseOptionalDecimal(input.BudgetMax)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"'budgetMax': should be a number"}); e != nil {
			return e
		}

		return err
	}

	result, err := h.auctionService.SearchAuctions(c.Request().Context(), filter, input.Page, input.Limit)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}
	if e := c.JSON(http.StatusOK, result); e != nil {
		return e
	}

	return nil
}

func parseOptionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

type getUserAuctionsInput struct {
	Status string `query:"status" validate:"omitempty,oneof=draft published bidding reviewing selected expired cancelled"`
}

// /auctions
func (h *auctionRoutesHandler) GetUserAuctions(c echo.Context) error {
	consumerId := userId(c)
	if consumerId == "" {
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Missing X-User-Id header"}); e != nil {
			return e
		}

		return nil
	}

	var input getUserAuctionsInput
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

	auctions, err := h.auctionService.ListAuctions(c.Request().Context(), consumerId, input.Status)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}
	if e := c.JSON(http.StatusOK, auctions); e != nil {
		return e
	}

	return nil
}

type auctionIdInput struct {
	AuctionId string `param:"auctionId" validate:"required,uuid4"`
}

// /auctions/:auctionId
func (h *auctionRoutesHandler) GetAuction(c echo.Context) error {
	input := auctionIdInput{AuctionId: c.Param("auctionId")}
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	auction, err := h.auctionService.GetAuctionById(c.Request().Context(), input.AuctionId)
	if err == nil {
		if e := c.JSON(http.StatusOK, auction); e != nil {
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

// /auctions/:auctionId/publish
func (h *auctionRoutesHandler) PublishAuction(c echo.Context) error {
	input := auctionIdInput{AuctionId: c.Param("auctionId")}
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	auction, err := h.auctionService.PublishAuction(c.Request().Context(), input.AuctionId)
	if err == nil {
		if e := c.JSON(http.StatusOK, auction); e != nil {
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

type selectBidInput struct {
	AuctionId string `param:"auctionId" validate:"required,uuid4"`
	BidId     string `param:"bidId" validate:"required,uuid4"`
	Reason    string `json:"reason" validate:"max=500"`
}

// /auctions/:auctionId/select-bid/:bidId
func (h *auctionRoutesHandler) SelectBid(c echo.Context) error {
	var input selectBidInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.AuctionId, input.BidId = c.Param("auctionId"), c.Param("bidId")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	selection, err := h.auctionService.SelectBid(c.Request().Context(), input.AuctionId, input.BidId, input.Reason)
	if err == nil {
		if e := c.JSON(http.StatusOK, selection); e != nil {
			return e
		}

		return nil
	}

	switch {
	case errors.Is(err, service.ErrAuctionNotFound):
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no auction with given id"}); e != nil {
			return e
		}
	case errors.Is(err, service.ErrBidNotFound):
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no such bid on given auction"}); e != nil {
			return e
		}
	case errors.Is(err, service.ErrBidAlreadySelected):
		if e := c.JSON(http.StatusConflict, errorResponse{"A bid has already been selected for this auction"}); e != nil {
			return e
		}
	case errors.Is(err, service.ErrBookingFailed):
		// Selection was compensated; surface the downstream cause.
		if e := c.JSON(http.StatusBadRequest, errorResponse{err.Error()}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
