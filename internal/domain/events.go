package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatusEvent is the message published to the broker after every
// successful lifecycle transition, for downstream consumers (audit trail,
// proof-of-payment mailer).
type PaymentStatusEvent struct {
	PaymentID      uuid.UUID     `json:"payment_id"`
	Reference      string        `json:"reference"`
	PreviousStatus PaymentStatus `json:"previous_status"`
	NewStatus      PaymentStatus `json:"new_status"`
	ActorEmail     string        `json:"actor_email"`
	ActorRole      Role          `json:"actor_role"`
	OccurredAt     time.Time     `json:"occurred_at"`
}
