package dto

import "time"

// BalanceResponse represents the API response for a device's account balance
type BalanceResponse struct {
	DeviceUID string `json:"deviceUid"`
	Balance   int64  `json:"balance"`
}

// TransactionItem is one row of the transaction listing
type TransactionItem struct {
	When    time.Time `json:"when"`
	Display string    `json:"display"`
}

// TransactionListResponse represents the API response for the recent
// transactions of a device's account
type TransactionListResponse struct {
	DeviceUID    string            `json:"deviceUid"`
	Transactions []TransactionItem `json:"transactions"`
}

// AmountRequest represents the API request for a recharge or withdrawal
type AmountRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// OutcomeResponse represents the API response for a processed transaction
type OutcomeResponse struct {
	Approved   bool   `json:"approved"`
	NewBalance int64  `json:"newBalance,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Message    string `json:"message"`
}
