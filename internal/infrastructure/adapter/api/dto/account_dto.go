package dto

// CreateAccountRequest represents the API request for enrolling a user
type CreateAccountRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// AccountResponse represents the API response for an account
type AccountResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Balance  int64  `json:"balance"`
	Status   string `json:"status"`
}

// LinkDeviceRequest represents the API request for linking a device to a user
type LinkDeviceRequest struct {
	UID               string `json:"uid" binding:"required"`
	HardwareSignature string `json:"hardwareSignature"`
}
