package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage over a group of LLM events.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

// BatchData describes one generation run and the records it produced.
type BatchData struct {
	QuestionType    string
	Field           string
	Subfield        string
	Difficulty      string
	RequestedCount  int
	ChoiceCount     int
	CorrectCount    int
	Model           string
	BlockCount      int
	DroppedCount    int
	GenerationError string
	Records         []RecordData
}

// RecordData is one stored question. Payload is the record's JSON form.
// Position is 1-based; SaveBatch assigns it from the slice order.
type RecordData struct {
	Position int
	Question string
	Payload  json.RawMessage
}

// Batch is a stored generation run.
type Batch struct {
	ID        string
	Sequence  int64
	CreatedAt time.Time
	BatchData

	// RecordCount is filled by ListBatches, where Records stays empty.
	RecordCount int
}

// QuestionRepo persists generated question batches.
type QuestionRepo interface {
	// SaveBatch stores the batch and its records atomically and returns the
	// new batch ID.
	SaveBatch(ctx context.Context, data BatchData) (string, error)

	// ListBatches returns batch summaries newest first, without records.
	ListBatches(ctx context.Context, opts QueryOpts) ([]Batch, error)

	// GetBatch returns a batch with its records. id may be a unique prefix.
	// Returns nil if nothing matches.
	GetBatch(ctx context.Context, id string) (*Batch, error)

	// DeleteBatch removes a batch and its records.
	DeleteBatch(ctx context.Context, id string) error
}
