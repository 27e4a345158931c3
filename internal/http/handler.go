package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/tourops-pricing/internal/http/middleware"
	"github.com/nurpe/tourops-pricing/internal/model"
	"github.com/nurpe/tourops-pricing/internal/pricing"
	"github.com/nurpe/tourops-pricing/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type Handler struct {
	quotes   *service.QuoteService
	rates    *service.RateService
	exchange *service.ExchangeService
	log      zerolog.Logger
}

func NewHandler(quotes *service.QuoteService, rates *service.RateService, exchange *service.ExchangeService, log zerolog.Logger) *Handler {
	return &Handler{quotes: quotes, rates: rates, exchange: exchange, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/quotes", h.quote)
	protected.POST("/quotes/pdf", h.quotePDF)

	protected.GET("/offerings/:id/rates", h.listRates)
	protected.POST("/offerings/:id/rates", h.createRate)
	protected.GET("/offerings/:id/rates/export", h.exportRates)
	protected.PUT("/rates/:id", h.updateRate)
	protected.DELETE("/rates/:id", h.deactivateRate)

	protected.POST("/exchange-rates", h.createExchangeRate)
	protected.GET("/exchange-rates/latest", h.latestExchangeRate)
	protected.POST("/bookings/:id/exchange-lock", h.lockExchangeRate)
}

// quoteRequest accepts distance_km as an alias of distance.
type quoteRequest struct {
	ServiceOfferingID string           `json:"service_offering_id" binding:"required"`
	ServiceDate       string           `json:"service_date" binding:"required"`
	Pax               *int             `json:"pax"`
	Nights            *int             `json:"nights"`
	Days              *int             `json:"days"`
	Distance          *decimal.Decimal `json:"distance"`
	DistanceKm        *decimal.Decimal `json:"distance_km"`
	Hours             *decimal.Decimal `json:"hours"`
	Children          *int             `json:"children"`
	ChildAges         []int            `json:"child_ages"`
	BoardType         string           `json:"board_type"`
	WithDriver        bool             `json:"with_driver"`
}

func (h *Handler) quote(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	req, ok := h.bindQuote(c)
	if !ok {
		return
	}

	result, err := h.quotes.Quote(c.Request.Context(), principal.TenantID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) quotePDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	req, ok := h.bindQuote(c)
	if !ok {
		return
	}

	result, err := h.quotes.QuotePDF(c.Request.Context(), principal.TenantID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, contentTypePDF, result)
}

func (h *Handler) bindQuote(c *gin.Context) (model.QuoteRequest, bool) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return model.QuoteRequest{}, false
	}

	offeringID, err := uuid.Parse(strings.TrimSpace(req.ServiceOfferingID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service_offering_id"})
		return model.QuoteRequest{}, false
	}
	serviceDate, err := parseDate(req.ServiceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service_date"})
		return model.QuoteRequest{}, false
	}
	board := model.BoardType(strings.ToUpper(strings.TrimSpace(req.BoardType)))
	if board != "" && !board.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board_type"})
		return model.QuoteRequest{}, false
	}

	distance := req.Distance
	if distance == nil {
		distance = req.DistanceKm
	}

	return model.QuoteRequest{
		OfferingID:  offeringID,
		ServiceDate: serviceDate,
		Pax:         req.Pax,
		Nights:      req.Nights,
		Days:        req.Days,
		Distance:    distance,
		Hours:       req.Hours,
		Children:    req.Children,
		ChildAges:   req.ChildAges,
		BoardType:   board,
		WithDriver:  req.WithDriver,
	}, true
}

type rateRequest struct {
	SeasonFrom string          `json:"season_from" binding:"required"`
	SeasonTo   string          `json:"season_to" binding:"required"`
	IsActive   *bool           `json:"is_active"`
	Payload    json.RawMessage `json:"payload" binding:"required"`
}

type rateResponse struct {
	ID         uuid.UUID             `json:"id"`
	OfferingID uuid.UUID             `json:"service_offering_id"`
	Category   model.ServiceCategory `json:"category"`
	SeasonFrom string                `json:"season_from"`
	SeasonTo   string                `json:"season_to"`
	IsActive   bool                  `json:"is_active"`
	Payload    model.RatePayload     `json:"payload"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func toRateResponse(rate model.RateRecord) rateResponse {
	return rateResponse{
		ID:         rate.ID,
		OfferingID: rate.OfferingID,
		Category:   rate.Category,
		SeasonFrom: rate.SeasonFrom.Format(pricing.DateLayout),
		SeasonTo:   rate.SeasonTo.Format(pricing.DateLayout),
		IsActive:   rate.IsActive,
		Payload:    rate.Payload,
		CreatedAt:  rate.CreatedAt,
		UpdatedAt:  rate.UpdatedAt,
	}
}

func (h *Handler) listRates(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	offeringID, ok := pathID(c)
	if !ok {
		return
	}

	rates, err := h.rates.List(c.Request.Context(), principal.TenantID, offeringID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	items := make([]rateResponse, 0, len(rates))
	for _, rate := range rates {
		items = append(items, toRateResponse(rate))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) createRate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	offeringID, ok := pathID(c)
	if !ok {
		return
	}
	req, from, to, ok := bindRate(c)
	if !ok {
		return
	}

	rate, err := h.rates.Create(c.Request.Context(), service.CreateRateInput{
		Principal:  principal,
		OfferingID: offeringID,
		SeasonFrom: from,
		SeasonTo:   to,
		RawPayload: req.Payload,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRateResponse(*rate))
}

func (h *Handler) updateRate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	rateID, ok := pathID(c)
	if !ok {
		return
	}
	req, from, to, ok := bindRate(c)
	if !ok {
		return
	}

	rate, err := h.rates.Update(c.Request.Context(), service.UpdateRateInput{
		Principal:  principal,
		RateID:     rateID,
		SeasonFrom: from,
		SeasonTo:   to,
		IsActive:   req.IsActive,
		RawPayload: req.Payload,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRateResponse(*rate))
}

func (h *Handler) deactivateRate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	rateID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.rates.Deactivate(c.Request.Context(), principal, rateID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) exportRates(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	offeringID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.rates.Export(c.Request.Context(), principal.TenantID, offeringID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, contentTypeXLSX, result)
}

type exchangeRateRequest struct {
	FromCurrency string          `json:"from_currency" binding:"required"`
	ToCurrency   string          `json:"to_currency" binding:"required"`
	Rate         decimal.Decimal `json:"rate"`
	RateDate     string          `json:"rate_date"`
}

func (h *Handler) createExchangeRate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req exchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var rateDate time.Time
	if strings.TrimSpace(req.RateDate) != "" {
		parsed, err := parseDate(req.RateDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate_date"})
			return
		}
		rateDate = parsed
	}

	rate, err := h.exchange.Create(c.Request.Context(), service.CreateExchangeRateInput{
		Principal:    principal,
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		Rate:         req.Rate,
		RateDate:     rateDate,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rate)
}

func (h *Handler) latestExchangeRate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	rate, err := h.exchange.Latest(c.Request.Context(), principal.TenantID, c.Query("from"), c.Query("to"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

type exchangeLockRequest struct {
	FromCurrency string `json:"from_currency" binding:"required"`
	ToCurrency   string `json:"to_currency" binding:"required"`
}

func (h *Handler) lockExchangeRate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	bookingID, ok := pathID(c)
	if !ok {
		return
	}

	var req exchangeLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lock, err := h.exchange.LockForBooking(c.Request.Context(), principal.TenantID, bookingID, req.FromCurrency, req.ToCurrency)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, lock)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var overlap *pricing.OverlapError
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &overlap):
		c.JSON(http.StatusConflict, gin.H{
			"error":               err.Error(),
			"conflicting_rate_id": overlap.RateID,
			"season_from":         overlap.SeasonFrom.Format(pricing.DateLayout),
			"season_to":           overlap.SeasonTo.Format(pricing.DateLayout),
		})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func bindRate(c *gin.Context) (rateRequest, time.Time, time.Time, bool) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return rateRequest{}, time.Time{}, time.Time{}, false
	}
	from, err := parseDate(req.SeasonFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid season_from"})
		return rateRequest{}, time.Time{}, time.Time{}, false
	}
	to, err := parseDate(req.SeasonTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid season_to"})
		return rateRequest{}, time.Time{}, time.Time{}, false
	}
	return req, from, to, true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func attachment(c *gin.Context, contentType string, doc *service.DocumentResult) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename=\""+doc.FileName+"\"")
	c.Data(http.StatusOK, contentType, doc.Content)
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		pricing.DateLayout,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
