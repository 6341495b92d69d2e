package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var paperEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "subject", "institution",
	"level", "requested", "produced", "sentinel", "source_chars",
}

func (r *eventRepo) AppendPaper(ctx context.Context, data PaperEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(PaperEventsTable.Name).
		Columns(paperEventColumns[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			data.SessionID,
			data.Subject,
			data.Institution,
			data.Level,
			data.Requested,
			data.Produced,
			data.Sentinel,
			data.SourceChars,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save paper event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPaperEvents(ctx context.Context, opts QueryOpts) ([]PaperEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(paperEventColumns...).
		From(entsql.Table(PaperEventsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query paper events: %w", err)
	}
	defer rows.Close()

	var records []PaperEventRecord
	for rows.Next() {
		var rec PaperEventRecord
		err := rows.Scan(
			&rec.ID,
			&rec.Sequence,
			&rec.Timestamp,
			&rec.SessionID,
			&rec.Subject,
			&rec.Institution,
			&rec.Level,
			&rec.Requested,
			&rec.Produced,
			&rec.Sentinel,
			&rec.SourceChars,
		)
		if err != nil {
			return nil, fmt.Errorf("scan paper event: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query paper events: %w", err)
	}
	return records, nil
}
