package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"homeoracle/server/internal/models"
	"homeoracle/server/internal/valuation"
)

type Handler struct {
	service      *valuation.Service
	logger       *logrus.Logger
	discountRate float64
	timeout      time.Duration
}

type ValuationRequest struct {
	Address string `json:"address" binding:"required"`
}

type HistoryRequest struct {
	Address      string   `json:"address" binding:"required"`
	Suburb       string   `json:"suburb"`
	Postcode     string   `json:"postcode" binding:"omitempty,numeric,len=4"`
	DiscountRate *float64 `json:"discount_rate"`
}

func (r HistoryRequest) input() models.IdentifyingInput {
	return models.IdentifyingInput{
		Address:  strings.TrimSpace(r.Address),
		Suburb:   strings.TrimSpace(r.Suburb),
		Postcode: strings.TrimSpace(r.Postcode),
	}
}

// NewHandler creates the HTTP handlers. discountRate is used when a request omits
// one; timeout bounds each request's provider work (0 disables it).
func NewHandler(service *valuation.Service, discountRate float64, timeout time.Duration, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		service:      service,
		logger:       logger,
		discountRate: discountRate,
		timeout:      timeout,
	}
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) CreateValuation(c *gin.Context) {
	var req ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Address) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A property address is required"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	record, err := h.service.Valuation(ctx, strings.TrimSpace(req.Address))
	if err != nil {
		h.writeError(c, err, "Failed to value property")
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) GetHistory(c *gin.Context) {
	req, ok := h.bindHistory(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	report, err := h.service.History(ctx, req.input(), h.rate(req))
	if err != nil {
		h.writeError(c, err, "Failed to build value history")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetListingHistory(c *gin.Context) {
	req, ok := h.bindHistory(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	report, err := h.service.ListingHistory(ctx, req.input(), h.rate(req))
	if err != nil {
		h.writeError(c, err, "Failed to fetch listing history")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) bindHistory(c *gin.Context) (HistoryRequest, bool) {
	var req HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("Invalid history request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address: address is required and postcode must be 4 digits"})
		return req, false
	}
	if strings.TrimSpace(req.Address) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A property address is required"})
		return req, false
	}
	return req, true
}

func (h *Handler) rate(req HistoryRequest) float64 {
	if req.DiscountRate != nil {
		return *req.DiscountRate
	}
	return h.discountRate
}

func (h *Handler) writeError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, valuation.ErrInvalidDiscountRate):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, valuation.ErrValuationUnavailable), errors.Is(err, valuation.ErrProviderUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	h.logger.WithError(err).WithField("status", status).Error(message)
	c.JSON(status, gin.H{"error": message})
}
