package consumer

import "context"

// DebeziumUserRecord represents a row from the users table in a Debezium CDC event.
type DebeziumUserRecord struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	DeletedAt *string `json:"deleted_at"` // nil = active, non-nil = soft-deleted
}

// DebeziumPayload is the payload field of a Debezium CDC message.
type DebeziumPayload struct {
	Before *DebeziumUserRecord `json:"before"`
	After  *DebeziumUserRecord `json:"after"`
	Op     string              `json:"op"` // "c"=create, "u"=update, "d"=delete, "r"=snapshot
	TsMs   int64               `json:"ts_ms"`
}

// DebeziumMessage is the top-level Debezium CDC message envelope.
type DebeziumMessage struct {
	Payload DebeziumPayload `json:"payload"`
}

// CDCEventHandler processes a decoded Debezium CDC message.
type CDCEventHandler interface {
	HandleCDCEvent(ctx context.Context, event *DebeziumMessage) error
}

// CDCEventConsumer manages the Kafka consumer lifecycle.
type CDCEventConsumer interface {
	Start(ctx context.Context) error
	Close() error
}
