package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/application"
	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/internal/interface/middleware"
	"github.com/yourrightpocket/charityround/pkg/helpers"
	"github.com/yourrightpocket/charityround/pkg/money"
	"github.com/yourrightpocket/charityround/pkg/response"
	"github.com/yourrightpocket/charityround/pkg/validation"
)

// TransactionHandler serves the balance and transaction endpoints. When
// a queue publisher is configured, ingestion is asynchronous: the
// request is acknowledged with 202 and the worker applies the credit.
type TransactionHandler struct {
	Svc       *application.LedgerService
	Publisher *helpers.RabbitPublisher
	Logger    *logrus.Logger
}

func NewTransactionHandler(svc *application.LedgerService, publisher *helpers.RabbitPublisher, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{Svc: svc, Publisher: publisher, Logger: logger}
}

type ingestRequest struct {
	ExternalID   string `json:"external_id" binding:"required"`
	AccountID    int64  `json:"account_id"`
	Amount       string `json:"amount" binding:"required"` // decimal dollars, e.g. "4.53"
	MerchantName string `json:"merchant_name"`
	Category     string `json:"category"`
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
}

func (h *TransactionHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cents, err := money.ParseDecimalToCents(req.Amount)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "amount must be a positive decimal", nil)
		return
	}
	job := application.TransactionJob{
		UserID:       middleware.UserID(c),
		AccountID:    req.AccountID,
		ExternalID:   req.ExternalID,
		AmountCents:  int64(cents),
		MerchantName: req.MerchantName,
		Category:     req.Category,
		Date:         req.Date,
	}

	if h.Publisher != nil {
		if err := h.Publisher.PublishJSON(c.Request.Context(), job); err != nil {
			h.Logger.WithError(err).WithField("external_id", job.ExternalID).Error("enqueue transaction failed")
			response.Error[any](c, http.StatusServiceUnavailable, "ingestion temporarily unavailable", nil)
			return
		}
		response.Success[any](c, http.StatusAccepted, gin.H{"queued": true}, "transaction accepted", nil)
		return
	}

	txn, created, err := h.Svc.IngestTransaction(c.Request.Context(), job)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	response.Success(c, status, transactionPayload(txn), "transaction processed", gin.H{"created": created})
}

func transactionPayload(t *entity.Transaction) gin.H {
	return gin.H{
		"id":             t.ID,
		"external_id":    t.ExternalID,
		"amount":         t.Amount,
		"rounded_amount": t.RoundedAmount,
		"roundup_amount": t.RoundupAmount,
		"merchant_name":  t.MerchantName,
		"category":       t.Category,
		"date":           t.Date.Format("2006-01-02"),
		"processed_at":   t.ProcessedAt,
	}
}

func (h *TransactionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	txns, err := h.Svc.RecentTransactions(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	payload := make([]gin.H, 0, len(txns))
	for i := range txns {
		payload = append(payload, transactionPayload(&txns[i]))
	}
	response.Success(c, http.StatusOK, payload, "transactions", nil)
}

func (h *TransactionHandler) Balance(c *gin.Context) {
	b, err := h.Svc.Balance(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"current_balance":   b.CurrentBalance,
		"total_accumulated": b.TotalAccumulated,
		"total_donated":     b.TotalDonated,
		"last_updated":      b.LastUpdated,
	}, "balance", nil)
}
