package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/types"
)

// SQLiteStore persists records as JSON documents in a single table.
// The record shape is defined at runtime by the active schema, so
// filtering and sorting go through json_extract rather than dedicated
// columns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Migrate creates the employees table. Run once at startup.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS employees (
			id  TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		)`)
	return err
}

// jsonPath builds a JSON path for a field name. Names contain spaces
// and slashes, so the member is always quoted.
func jsonPath(field string) string {
	return `$."` + strings.ReplaceAll(field, `"`, ``) + `"`
}

// docField embeds the JSON path in a single-quoted SQL literal. Field
// names come from user-defined schemas and from the sortBy query
// parameter, so single quotes are doubled to keep them inside the
// literal.
func docField(field string) string {
	path := strings.ReplaceAll(jsonPath(field), `'`, `''`)
	return fmt.Sprintf("json_extract(doc, '%s')", path)
}

func docNumber(field string) string {
	return fmt.Sprintf("CAST(coalesce(%s, 0) AS REAL)", docField(field))
}

// whereClause translates filters into SQL conditions mirroring
// filter.go exactly.
func whereClause(filters types.Filters) (string, []any) {
	var conditions []string
	var args []any

	for key, val := range filters {
		if val == "" {
			continue
		}
		switch key {
		case FilterProject, "project":
			conditions = append(conditions,
				fmt.Sprintf("lower(coalesce(%s, '')) LIKE '%%' || lower(?) || '%%'", docField(schema.FieldProject)))
			args = append(args, val)
		case FilterStream:
			conditions = append(conditions, docField(schema.FieldStream)+" = ?")
			args = append(args, val)
		case FilterContract:
			conditions = append(conditions, docField(schema.FieldContract)+" = ?")
			args = append(args, val)
		case FilterAllocationStatus:
			alloc := docNumber(schema.FieldAllocation)
			switch val {
			case AllocationPartial:
				conditions = append(conditions, fmt.Sprintf("(%s > 0 AND %s < 100)", alloc, alloc))
			case AllocationFull:
				conditions = append(conditions, alloc+" >= 100")
			}
		case FilterExpiringStatus:
			days := docNumber(schema.FieldCountdown)
			notNull := docField(schema.FieldCountdown) + " IS NOT NULL"
			switch val {
			case ExpiringAtRisk:
				conditions = append(conditions, fmt.Sprintf("(%s AND %s <= 30)", notNull, days))
			case Expiring31to60:
				conditions = append(conditions, fmt.Sprintf("(%s AND %s BETWEEN 31 AND 60)", notNull, days))
			case Expiring61to90:
				conditions = append(conditions, fmt.Sprintf("(%s AND %s BETWEEN 61 AND 90)", notNull, days))
			}
		case FilterAllocationRange:
			if lo, hi, ok := parseRange(val); ok {
				conditions = append(conditions,
					fmt.Sprintf("%s BETWEEN ? AND ?", docNumber(schema.FieldAllocation)))
				args = append(args, lo, hi)
			}
		default:
			conditions = append(conditions, docField(key)+" = ?")
			args = append(args, val)
		}
	}

	if len(conditions) == 0 {
		return "1=1", nil
	}
	return strings.Join(conditions, " AND "), args
}

func (s *SQLiteStore) List(ctx context.Context, q types.ListQuery) ([]types.Record, error) {
	where, args := whereClause(q.Filters)

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT doc FROM employees WHERE %s", where)
	if q.Sort.Key != "" {
		dir := "ASC"
		if q.Sort.Direction == types.SortDesc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s COLLATE NOCASE %s", docField(q.Sort.Key), dir)
	}
	if limit := q.Limit(); limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d OFFSET %d", limit, q.Offset())
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
	}
	defer rows.Close()

	var recs []types.Record
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		var rec types.Record
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("decoding employee document: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context, filters types.Filters) (int, error) {
	where, args := whereClause(filters)
	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM employees WHERE "+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("counting employees: %w", err)
	}
	return total, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (types.Record, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM employees WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading employee: %w", err)
	}
	var rec types.Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("decoding employee document: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) Create(ctx context.Context, data types.Record) (types.Record, error) {
	rec := data.Clone()
	rec[types.IDField] = uuid.NewString()
	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO employees (id, doc) VALUES (?, ?)", rec.ID(), doc); err != nil {
		return nil, fmt.Errorf("inserting employee: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, data types.Record) (types.Record, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := existing.Clone()
	for k, v := range data {
		merged[k] = v
	}
	merged[types.IDField] = id // identifier is immutable
	doc, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		"UPDATE employees SET doc = ? WHERE id = ?", doc, id); err != nil {
		return nil, fmt.Errorf("updating employee: %w", err)
	}
	return merged, nil
}

// Delete removes the record, reporting ErrNotFound for absent ids so
// the HTTP layer can surface a 404 per the remote contract.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertByName merges rec into the record sharing its first and last
// name, or inserts it fresh.
func (s *SQLiteStore) UpsertByName(ctx context.Context, rec types.Record) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id FROM employees WHERE %s = ? AND %s = ?",
			docField(schema.FieldFirstName), docField(schema.FieldLastName)),
		rec.String(schema.FieldFirstName), rec.String(schema.FieldLastName),
	).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err := s.Create(ctx, rec)
		return true, err
	case err != nil:
		return false, fmt.Errorf("matching employee by name: %w", err)
	default:
		_, err := s.Update(ctx, id, rec)
		return false, err
	}
}

// ReplaceAll swaps the entire table contents in one transaction.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, recs []types.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM employees"); err != nil {
		return fmt.Errorf("clearing employees: %w", err)
	}
	for _, r := range recs {
		rec := r.Clone()
		if rec.ID() == "" {
			rec[types.IDField] = uuid.NewString()
		}
		doc, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO employees (id, doc) VALUES (?, ?)", rec.ID(), doc); err != nil {
			return fmt.Errorf("inserting employee: %w", err)
		}
	}
	return tx.Commit()
}
