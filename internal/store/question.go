package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// questionRepo implements QuestionRepo.
type questionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var batchColumns = []string{
	"id", "sequence", "created_at", "question_type", "field", "subfield",
	"difficulty", "requested_count", "choice_count", "correct_count",
	"model", "block_count", "dropped_count", "generation_error",
}

func (r *questionRepo) SaveBatch(ctx context.Context, data BatchData) (string, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("next sequence: %w", err)
	}

	id := uuid.NewString()
	b := entsql.Dialect(dialect.SQLite)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query, args := b.Insert(batchesTable).
		Columns(batchColumns...).
		Values(
			id,
			seqNum,
			time.Now().UTC(),
			data.QuestionType,
			data.Field,
			data.Subfield,
			data.Difficulty,
			data.RequestedCount,
			data.ChoiceCount,
			data.CorrectCount,
			data.Model,
			data.BlockCount,
			data.DroppedCount,
			data.GenerationError,
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert batch: %w", err)
	}

	if len(data.Records) > 0 {
		ins := b.Insert(recordsTable).Columns("batch_id", "position", "question", "payload")
		for i, rec := range data.Records {
			ins.Values(id, i+1, rec.Question, string(rec.Payload))
		}
		query, args = ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return "", fmt.Errorf("insert records: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func (r *questionRepo) ListBatches(ctx context.Context, opts QueryOpts) ([]Batch, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(batchesTable)
	rt := b.Table(recordsTable)

	counts := b.Select(rt.C("batch_id"), entsql.As(entsql.Count(rt.C("id")), "record_count")).
		From(rt).
		GroupBy(rt.C("batch_id")).
		As("rc")

	sel := b.Select(append(columnsOf(t, batchColumns), "COALESCE("+counts.C("record_count")+", 0)")...).
		From(t).
		LeftJoin(counts).
		On(t.C("id"), counts.C("batch_id")).
		OrderBy(entsql.Desc(t.C("sequence")))
	applyQueryOpts(sel, t, "created_at", opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var bt Batch
		if err := rows.Scan(append(batchDest(&bt), &bt.RecordCount)...); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, bt)
	}
	return out, rows.Err()
}

func (r *questionRepo) GetBatch(ctx context.Context, id string) (*Batch, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(batchesTable)
	query, args := b.Select(columnsOf(t, batchColumns)...).
		From(t).
		Where(entsql.HasPrefix(t.C("id"), id)).
		OrderBy(entsql.Desc(t.C("sequence"))).
		Limit(2).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	var matches []Batch
	for rows.Next() {
		var bt Batch
		if err := rows.Scan(batchDest(&bt)...); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		matches = append(matches, bt)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, fmt.Errorf("batch id prefix %q is ambiguous", id)
	}

	batch := &matches[0]
	records, err := r.records(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	batch.Records = records
	batch.RecordCount = len(records)
	return batch, nil
}

func (r *questionRepo) DeleteBatch(ctx context.Context, id string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(batchesTable).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("batch %s: %w", id, ErrNotFound)
	}
	return nil
}

// ErrNotFound is returned when a row addressed by ID does not exist.
var ErrNotFound = errors.New("not found")

func (r *questionRepo) records(ctx context.Context, batchID string) ([]RecordData, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(recordsTable)
	query, args := b.Select(t.C("position"), t.C("question"), t.C("payload")).
		From(t).
		Where(entsql.EQ(t.C("batch_id"), batchID)).
		OrderBy(t.C("position")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []RecordData
	for rows.Next() {
		var (
			rec     RecordData
			payload string
		)
		if err := rows.Scan(&rec.Position, &rec.Question, &payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Payload = []byte(payload)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func batchDest(b *Batch) []any {
	return []any{
		&b.ID,
		&b.Sequence,
		&b.CreatedAt,
		&b.QuestionType,
		&b.Field,
		&b.Subfield,
		&b.Difficulty,
		&b.RequestedCount,
		&b.ChoiceCount,
		&b.CorrectCount,
		&b.Model,
		&b.BlockCount,
		&b.DroppedCount,
		&b.GenerationError,
	}
}
