package controller

import (
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/service"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

type sessionRoutesHandler struct {
	sessionService service.QuotationSession
	validate       *validator.Validate
}

func newSessionRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *sessionRoutesHandler {
	h := &sessionRoutesHandler{sessionService: services.Session, validate: v}

	outer.POST("/quotation-sessions", h.PostSession)
	outer.GET("/quotation-sessions", h.GetUserSessions)
	outer.GET("/quotation-sessions/:sessionId", h.GetSession)
	outer.POST("/quotation-sessions/:sessionId/messages", h.PostMessage)
	outer.POST("/quotation-sessions/:sessionId/complete", h.CompleteSession)
	outer.POST("/quotation-sessions/:sessionId/convert-to-auction", h.ConvertSession)

	return h
}

type postSessionInput struct {
	ServiceCategory     string           `json:"serviceCategory" validate:""`
	ServiceDescription  string           `json:"serviceDescription" validate:""`
	Location            string           `json:"location" validate:""`
	PreferredDate       string           `json:"preferredDate" validate:"omitempty,datetime=2006-01-02"`
	PreferredTime       string           `json:"preferredTime" validate:""`
	BudgetRangeMin      *decimal.Decimal `json:"budgetRangeMin"`
	BudgetRangeMax      *decimal.Decimal `json:"budgetRangeMax"`
	SpecialRequirements string           `json:"specialRequirements" validate:""`
	Photos              []string         `json:"photos"`
}

// /quotation-sessions
func (h *sessionRoutesHandler) PostSession(c echo.Context) error {
	uid := userId(c)
	if uid == "" {
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Missing X-User-Id header"}); e != nil {
			return e
		}

		return nil
	}

	var input postSessionInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateSessionInput{
		ServiceCategory: input.ServiceCategory, ServiceDescription: input.ServiceDescription,
		Location: input.Location, PreferredDate: input.PreferredDate,
		PreferredTime: input.PreferredTime, BudgetRangeMin: input.BudgetRangeMin,
		BudgetRangeMax: input.BudgetRangeMax, SpecialRequirements: input.SpecialRequirements,
		Photos: input.Photos,
	}

	session, err := h.sessionService.CreateSession(c.Request().Context(), uid, model)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}
	if e := c.JSON(http.StatusCreated, session); e != nil {
		return e
	}

	return nil
}

// /quotation-sessions
func (h *sessionRoutesHandler) GetUserSessions(c echo.Context) error {
	uid := userId(c)
	if uid == "" {
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Missing X-User-Id header"}); e != nil {
			return e
		}

		return nil
	}

	sessions, err := h.sessionService.ListSessions(c.Request().Context(), uid)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}
	if e := c.JSON(http.StatusOK, sessions); e != nil {
		return e
	}

	return nil
}

type sessionIdInput struct {
	SessionId string `param:"sessionId" validate:"required,uuid4"`
}

// /quotation-sessions/:sessionId
func (h *sessionRoutesHandler) GetSession(c echo.Context) error {
	input := sessionIdInput{SessionId: c.Param("sessionId")}
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	session, err := h.sessionService.GetSessionById(c.Request().Context(), input.SessionId)
	if err == nil {
		if e := c.JSON(http.StatusOK, session); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrSessionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no session with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type postMessageInput struct {
	SessionId string            `param:"sessionId" validate:"required,uuid4"`
	Message   string            `json:"message" validate:"required,max=4000"`
	Metadata  map[string]string `json:"metadata"`
}

// /quotation-sessions/:sessionId/messages
func (h *sessionRoutesHandler) PostMessage(c echo.Context) error {
	uid := userId(c)
	if uid == "" {
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Missing X-User-Id header"}); e != nil {
			return e
		}

		return nil
	}

	var input postMessageInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.SessionId = c.Param("sessionId")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	session, err := h.sessionService.AddMessage(c.Request().Context(), input.SessionId, uid, input.Message, input.Metadata)
	if err == nil {
		if e := c.JSON(http.StatusOK, session); e != nil {
			return e
		}

		return nil
	}

	return h.writeSessionError(c, err)
}

// /quotation-sessions/:sessionId/complete
func (h *sessionRoutesHandler) CompleteSession(c echo.Context) error {
	uid := userId(c)
	if uid == "" {
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Missing X-User-Id header"}); e != nil {
			return e
		}

		return nil
	}

	input := sessionIdInput{SessionId: c.Param("sessionId")}
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	session, err := h.sessionService.CompleteSession(c.Request().Context(), input.SessionId, uid)
	if err == nil {
		if e := c.JSON(http.StatusOK, session); e != nil {
			return e
		}

		return nil
	}

	return h.writeSessionError(c, err)
}

// /quotation-sessions/:sessionId/convert-to-auction
func (h *sessionRoutesHandler) ConvertSession(c echo.Context) error {
	uid := userId(c)
	if uid == "" {
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Missing X-User-Id header"}); e != nil {
			return e
		}

		return nil
	}

	input := sessionIdInput{SessionId: c.Param("sessionId")}
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	conversion, err := h.sessionService.ConvertToAuction(c.Request().Context(), input.SessionId, uid)
	if err == nil {
		if e := c.JSON(http.StatusCreated, conversion); e != nil {
			return e
		}

		return nil
	}

	return h.writeSessionError(c, err)
}

func (h *sessionRoutesHandler) writeSessionError(c echo.Context, err error) error {
	switch err {
	case service.ErrSessionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no session with given id"}); e != nil {
			return e
		}
	case service.ErrSessionNotOwned:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Session belongs to another user"}); e != nil {
			return e
		}
	case service.ErrSessionAlreadyConverted:
		if e := c.JSON(http.StatusConflict, errorResponse{"Session has already been converted to an auction"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
