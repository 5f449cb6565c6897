package model

// BatchRequest asks for one message to be delivered to every recipient.
type BatchRequest struct {
	Message string
}

// EmailRequest asks for one message to be delivered to a single address.
type EmailRequest struct {
	ToEmail string
	ToName  string
	Message string
}

// EmailContent is a composed message, ready for a mail transport.
type EmailContent struct {
	Subject string
	Text    string
	HTML    string
}

// Envelope addresses composed content to one recipient.
type Envelope struct {
	To     string
	ToName string
	EmailContent
}

// DispatchResult aggregates the outcome of one batch dispatch.
// SuccessCount + FailureCount == TotalRecipients once the batch completes.
type DispatchResult struct {
	TotalRecipients int
	SuccessCount    int
	FailureCount    int
}

// Processed is the number of recipients attempted so far.
func (r DispatchResult) Processed() int {
	return r.SuccessCount + r.FailureCount
}

// Complete reports whether every recipient has been attempted.
func (r DispatchResult) Complete() bool {
	return r.Processed() == r.TotalRecipients
}
