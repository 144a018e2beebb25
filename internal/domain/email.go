package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentEmail is an immutable ingestion record for an inbound email that
// contains a payment request or invoice. Emails are produced by an upstream
// ingestion pipeline; this service only reads them. A processed email is linked
// to at most one payment via Payment.LinkedEmailID.
type PaymentEmail struct {
	ID              uuid.UUID `json:"id"`
	Subject         string    `json:"subject"`
	SenderEmail     string    `json:"sender_email"`
	Body            string    `json:"body"`
	ReceivedAt      time.Time `json:"received_at"`
	Processed       bool      `json:"processed"`
	AttachmentPaths []string  `json:"attachment_paths"` // object-storage paths to attached documents
}
