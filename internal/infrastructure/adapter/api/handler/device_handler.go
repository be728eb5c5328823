package handler

import (
	"net/http"

	"github.com/digiclever/dispenser/internal/domain/entity"
	domainerr "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/internal/domain/usecase/account"
	"github.com/digiclever/dispenser/internal/domain/usecase/processor"
	"github.com/digiclever/dispenser/internal/domain/usecase/resolver"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// DeviceHandler handles device-scoped HTTP requests: balance, transaction
// listing and back-office recharges or withdrawals by device uid
type DeviceHandler struct {
	accounts  *account.AccountUseCase
	resolver  *resolver.Resolver
	processor *processor.Processor
	logger    coreport.Logger
}

// NewDeviceHandler creates a new device handler instance
func NewDeviceHandler(
	accounts *account.AccountUseCase,
	res *resolver.Resolver,
	proc *processor.Processor,
	logger coreport.Logger,
) *DeviceHandler {
	return &DeviceHandler{
		accounts:  accounts,
		resolver:  res,
		processor: proc,
		logger:    logger,
	}
}

// GetBalance handles the GET /devices/:uid/balance endpoint
func (h *DeviceHandler) GetBalance(c *gin.Context) {
	uid := c.Param("uid")

	balance, err := h.accounts.BalanceByDevice(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, uid, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		DeviceUID: uid,
		Balance:   balance,
	})
}

// ListTransactions handles the GET /devices/:uid/transactions endpoint
func (h *DeviceHandler) ListTransactions(c *gin.Context) {
	uid := c.Param("uid")

	txns, err := h.accounts.LastTransactions(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, uid, err)
		return
	}

	items := make([]dto.TransactionItem, 0, len(txns))
	for i := range txns {
		items = append(items, dto.TransactionItem{
			When:    txns[i].CreatedAt,
			Display: txns[i].DisplayAmount(),
		})
	}

	c.JSON(http.StatusOK, dto.TransactionListResponse{
		DeviceUID:    uid,
		Transactions: items,
	})
}

// Recharge handles the POST /devices/:uid/recharge endpoint
func (h *DeviceHandler) Recharge(c *gin.Context) {
	h.transact(c, entity.KindRecharge)
}

// Withdraw handles the POST /devices/:uid/withdraw endpoint
func (h *DeviceHandler) Withdraw(c *gin.Context) {
	h.transact(c, entity.KindWithdrawal)
}

func (h *DeviceHandler) transact(c *gin.Context, kind entity.TransactionKind) {
	uid := c.Param("uid")

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidAmount),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	verdict, err := h.resolver.Resolve(c.Request.Context(), coreport.DeviceIdentity{UID: uid})
	if err != nil {
		h.respondError(c, uid, err)
		return
	}

	outcome, err := h.processor.Process(c.Request.Context(), verdict, kind, req.Amount)
	if err != nil {
		h.respondError(c, uid, err)
		return
	}

	status := http.StatusOK
	if !outcome.Approved {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, dto.OutcomeResponse{
		Approved:   outcome.Approved,
		NewBalance: outcome.NewBalance,
		Reason:     string(outcome.Reason),
		Message:    outcome.Message,
	})
}

// respondError maps domain errors to HTTP status codes
func (h *DeviceHandler) respondError(c *gin.Context, uid string, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	switch {
	case domainerr.IsNotFoundError(err):
		status = http.StatusNotFound
		message = "No account references this device"
	case domainerr.IsStoreUnavailableError(err):
		status = http.StatusServiceUnavailable
		message = "Ledger store unavailable"
	}

	h.logger.Error("Device request failed", map[string]any{
		"device_uid": uid,
		"error":      err.Error(),
	})

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	})
}
