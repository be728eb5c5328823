package handler

import (
	"errors"
	"net/http"

	domainerr "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/internal/domain/usecase/account"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles enrollment and device linking HTTP requests
type AccountHandler struct {
	accounts *account.AccountUseCase
	logger   coreport.Logger
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(accounts *account.AccountUseCase, logger coreport.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// CreateAccount handles the POST /accounts endpoint
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrMissingUsername),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	user, err := h.accounts.CreateUser(c.Request.Context(), req.Username, req.Name, req.Surname)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Internal server error"
		switch {
		case errors.Is(err, domainerr.ErrUsernameTaken):
			status = http.StatusConflict
			message = "User already registered."
		case errors.Is(err, domainerr.ErrMissingUsername):
			status = http.StatusBadRequest
			message = "Please enter at least a username."
		case domainerr.IsStoreUnavailableError(err):
			status = http.StatusServiceUnavailable
			message = "Ledger store unavailable"
		}
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: message,
		})
		return
	}

	c.JSON(http.StatusCreated, dto.AccountResponse{
		UserID:   user.ID,
		Username: user.Username,
		Balance:  user.Balance(),
		Status:   string(user.Status),
	})
}

// LinkDevice handles the POST /accounts/:username/devices endpoint
func (h *AccountHandler) LinkDevice(c *gin.Context) {
	username := c.Param("username")

	var req dto.LinkDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrDeviceIdentityMissing),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	identity := coreport.DeviceIdentity{
		UID:               req.UID,
		HardwareSignature: req.HardwareSignature,
	}

	user, err := h.accounts.LinkDevice(c.Request.Context(), username, identity)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Internal server error"
		switch {
		case errors.Is(err, domainerr.ErrDeviceAlreadyLinked):
			status = http.StatusConflict
			message = "This device already belongs to someone."
		case errors.Is(err, domainerr.ErrUsernameNotFound):
			status = http.StatusNotFound
			message = "This username doesn't exist."
		case errors.Is(err, domainerr.ErrDeviceIdentityMissing):
			status = http.StatusBadRequest
			message = "Please place a card in front of the reader."
		case domainerr.IsStoreUnavailableError(err):
			status = http.StatusServiceUnavailable
			message = "Ledger store unavailable"
		}
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, dto.AccountResponse{
		UserID:   user.ID,
		Username: user.Username,
		Balance:  user.Balance(),
		Status:   string(user.Status),
	})
}
