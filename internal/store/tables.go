package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	llmEventsTable = "llm_request_events"
	batchesTable   = "question_batches"
	recordsTable   = "question_records"
	sequenceTable  = "global_sequence"
)

// textSize marks a string column as unbounded TEXT.
const textSize = 2147483647

var (
	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       llmEventsTable,
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LLMRequestEventsColumns[2]}},
			{Name: "llmrequestevent_provider", Columns: []*schema.Column{LLMRequestEventsColumns[3]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[5]}},
		},
	}

	// QuestionBatchesColumns holds the columns for the "question_batches" table.
	QuestionBatchesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "question_type", Type: field.TypeString},
		{Name: "field", Type: field.TypeString},
		{Name: "subfield", Type: field.TypeString, Default: ""},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "requested_count", Type: field.TypeInt},
		{Name: "choice_count", Type: field.TypeInt, Default: 0},
		{Name: "correct_count", Type: field.TypeInt, Default: 0},
		{Name: "model", Type: field.TypeString, Default: ""},
		{Name: "block_count", Type: field.TypeInt, Default: 0},
		{Name: "dropped_count", Type: field.TypeInt, Default: 0},
		{Name: "generation_error", Type: field.TypeString, Size: textSize, Default: ""},
	}
	// QuestionBatchesTable holds the schema information for the "question_batches" table.
	QuestionBatchesTable = &schema.Table{
		Name:       batchesTable,
		Columns:    QuestionBatchesColumns,
		PrimaryKey: []*schema.Column{QuestionBatchesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "questionbatch_created_at", Columns: []*schema.Column{QuestionBatchesColumns[2]}},
			{Name: "questionbatch_field", Columns: []*schema.Column{QuestionBatchesColumns[4]}},
		},
	}

	// QuestionRecordsColumns holds the columns for the "question_records" table.
	QuestionRecordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "position", Type: field.TypeInt},
		{Name: "question", Type: field.TypeString, Size: textSize},
		{Name: "payload", Type: field.TypeString, Size: textSize},
		{Name: "batch_id", Type: field.TypeString, Size: 36},
	}
	// QuestionRecordsTable holds the schema information for the "question_records" table.
	QuestionRecordsTable = &schema.Table{
		Name:       recordsTable,
		Columns:    QuestionRecordsColumns,
		PrimaryKey: []*schema.Column{QuestionRecordsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "question_records_question_batches_records",
				Columns:    []*schema.Column{QuestionRecordsColumns[4]},
				RefColumns: []*schema.Column{QuestionBatchesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "questionrecord_batch_id_position", Unique: true, Columns: []*schema.Column{QuestionRecordsColumns[4], QuestionRecordsColumns[1]}},
		},
	}

	// GlobalSequenceColumns holds the columns for the "global_sequence" table.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// GlobalSequenceTable holds the single-row counter behind sequence numbers.
	GlobalSequenceTable = &schema.Table{
		Name:       sequenceTable,
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		LLMRequestEventsTable,
		QuestionBatchesTable,
		QuestionRecordsTable,
		GlobalSequenceTable,
	}
)

func init() {
	QuestionRecordsTable.ForeignKeys[0].RefTable = QuestionBatchesTable
}
