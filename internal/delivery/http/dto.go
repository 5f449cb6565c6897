package http

import (
	"github.com/google/uuid"
	"time"
)

// The callable endpoints follow the Firebase callable protocol:
// the payload is wrapped in "data", the answer in "result" or "error".

// SendBatchEmailsRequest is the body of POST /api/v1/sendBatchEmails.
type SendBatchEmailsRequest struct {
	Data BatchEmailsData `json:"data"`
}

// BatchEmailsData holds the announcement to broadcast.
type BatchEmailsData struct {
	Message string `json:"message"`
}

// SendEmailRequest is the body of POST /api/v1/sendEmail.
type SendEmailRequest struct {
	Data SendEmailData `json:"data"`
}

// SendEmailData addresses one announcement.
type SendEmailData struct {
	ToEmail string `json:"toEmail"`
	ToName  string `json:"toName"`
	Message string `json:"message"`
}

// ResultResponse wraps a successful callable result.
type ResultResponse struct {
	Result any `json:"result"`
}

// DispatchResultResponse is the result of sendBatchEmails.
type DispatchResultResponse struct {
	SuccessCount    int `json:"successCount"`
	FailureCount    int `json:"failureCount"`
	TotalRecipients int `json:"totalRecipients"`
}

// SendEmailResponse is the result of sendEmail.
type SendEmailResponse struct {
	Success bool `json:"success"`
}

// CreateBatchRequest is the body of POST /api/v1/batches.
type CreateBatchRequest struct {
	Message string `json:"message"`
}

// BatchJobResponse exposes a batch job and its progress.
type BatchJobResponse struct {
	ID              uuid.UUID `json:"id"`
	Status          string    `json:"status"`
	TotalRecipients int       `json:"totalRecipients"`
	SuccessCount    int       `json:"successCount"`
	FailureCount    int       `json:"failureCount"`
	Failures        []string  `json:"failures,omitempty"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ErrorResponse defines a standard structure for API error responses.
type ErrorResponse struct {
	Error CallableError `json:"error"`
}

// CallableError carries an error kind and a caller-facing message.
type CallableError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
