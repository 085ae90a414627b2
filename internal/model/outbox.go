package model

import (
	"encoding/json"
	"time"
)

const (
	EventUserCreated      = "user.created"
	EventBookingCreated   = "booking.created"
	EventPaymentScheduled = "payment.scheduled"
)

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// EventOutbox 领域事件发件箱，和业务写入同一事务
type EventOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"`
	AggregateID string `gorm:"size:36;not null"`
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (EventOutbox) TableName() string { return "event_outbox" }

func NewEvent(eventType, aggregateID string, data map[string]any) (*EventOutbox, error) {
	body := map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"event_type": eventType,
		"data":       data,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return &EventOutbox{
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     string(payload),
		Status:      OutboxPending,
	}, nil
}
