package api

// EmailAddress is a single recipient or sender entry on the wire.
type EmailAddress struct {
	Address     string `json:"address"`
	DisplayName string `json:"displayName,omitempty"`
}

// Recipients groups the recipient lists of a send request.
type Recipients struct {
	To  []EmailAddress `json:"to"`
	CC  []EmailAddress `json:"cc,omitempty"`
	BCC []EmailAddress `json:"bcc,omitempty"`
}

// Content carries the subject and body variants of a send request.
type Content struct {
	Subject   string `json:"subject"`
	PlainText string `json:"plainText,omitempty"`
	HTML      string `json:"html,omitempty"`
}

// SendRequest is the payload of POST /emails:send.
type SendRequest struct {
	SenderAddress string            `json:"senderAddress"`
	Recipients    Recipients        `json:"recipients"`
	Content       Content           `json:"content"`
	Headers       map[string]string `json:"headers,omitempty"`
}

// SendResponse is the accepted-submission response: the operation handle
// plus the initial operation status.
type SendResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ResultError is the error detail attached to a failed operation.
type ResultError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendResult is one point-in-time read of an operation from
// GET /emails/operations/{id}. Status uses the operation vocabulary;
// SendStatus uses the send vocabulary and is empty until the service
// has begun work on the message.
type SendResult struct {
	ID         string       `json:"id"`
	Status     string       `json:"status"`
	SendStatus string       `json:"sendStatus,omitempty"`
	Error      *ResultError `json:"error,omitempty"`
}
