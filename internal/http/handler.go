package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/balance-ledger/internal/http/middleware"
	"github.com/nurpe/balance-ledger/internal/service"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	contracts *service.ContractService
	payments  *service.PaymentService
	deposits  *service.DepositService
	reports   *service.ReportService
	health    HealthChecker
	log       zerolog.Logger
}

func NewHandler(
	contracts *service.ContractService,
	payments *service.PaymentService,
	deposits *service.DepositService,
	reports *service.ReportService,
	health HealthChecker,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		contracts: contracts,
		payments:  payments,
		deposits:  deposits,
		reports:   reports,
		health:    health,
		log:       log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware, adminMiddleware, idempotency gin.HandlerFunc) {
	router.GET("/healthz", h.healthz)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/contracts/:id", h.getContract)
	protected.GET("/contracts", h.listContracts)
	protected.GET("/jobs/unpaid", h.listUnpaidJobs)
	protected.POST("/jobs/:job_id/pay", idempotency, h.payJob)
	protected.POST("/balances/deposit/:userId", idempotency, h.deposit)

	admin := router.Group("/admin")
	admin.Use(adminMiddleware)
	admin.GET("/best-profession", h.bestProfession)
	admin.GET("/best-clients", h.bestClients)
	admin.GET("/reports/earnings", h.earningsReport)
}

func (h *Handler) healthz(c *gin.Context) {
	if err := h.health.Ping(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal", "code": "unauthenticated"})
		return
	}

	contractID, err := parseID(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	contract, err := h.contracts.GetContract(c.Request.Context(), principal.ID, contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal", "code": "unauthenticated"})
		return
	}

	contracts, err := h.contracts.ListContracts(c.Request.Context(), principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) listUnpaidJobs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal", "code": "unauthenticated"})
		return
	}

	jobs, err := h.contracts.ListUnpaidJobs(c.Request.Context(), principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) payJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal", "code": "unauthenticated"})
		return
	}

	jobID, err := parseID(c.Param("job_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	job, err := h.payments.PayJob(c.Request.Context(), principal, jobID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

type depositRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (h *Handler) deposit(c *gin.Context) {
	targetID, err := parseID(c.Param("userId"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a number", "code": "bad_request"})
		return
	}

	result, err := h.deposits.Deposit(c.Request.Context(), service.DepositInput{
		TargetID: targetID,
		Amount:   req.Amount,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	if result.NoContent {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, result.Profile)
}

func (h *Handler) bestProfession(c *gin.Context) {
	period, err := service.ParsePeriod(c.Query("start"), c.Query("end"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	best, err := h.reports.BestProfession(c.Request.Context(), period)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, best)
}

func (h *Handler) bestClients(c *gin.Context) {
	period, err := service.ParsePeriod(c.Query("start"), c.Query("end"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit", "code": "bad_request"})
			return
		}
	}

	clients, err := h.reports.BestClients(c.Request.Context(), period, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handler) earningsReport(c *gin.Context) {
	period, err := service.ParsePeriod(c.Query("start"), c.Query("end"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	format, err := service.ParseReportFormat(c.Query("format"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.reports.EarningsReport(c.Request.Context(), period, format)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "unauthorized_role"})
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error(), "code": "insufficient_funds"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": "forbidden"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bad_request"})
	case errors.Is(err, service.ErrTransactionFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction failed", "code": "transaction_failed"})
	default:
		_ = c.Error(err)
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "internal"})
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrInvalidInput
	}
	return uint(id), nil
}
