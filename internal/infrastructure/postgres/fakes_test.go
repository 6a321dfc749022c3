package postgres

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB tablas carts y cart_items en memoria; interpreta solo las sentencias del repositorio.
// Los cambios se aplican al momento, sin aislamiento entre transacciones.
type fakeDB struct {
	carts map[string]time.Time
	items map[string][][]any
}

func newFakeDB() *fakeDB {
	return &fakeDB{carts: map[string]time.Time{}, items: map[string][][]any{}}
}

func (db *fakeDB) exec(sql string, args []any) {
	switch {
	case strings.Contains(sql, "INSERT INTO carts"):
		id := args[0].(string)
		if _, ok := db.carts[id]; ok && strings.Contains(sql, "DO NOTHING") {
			return
		}
		db.carts[id] = args[1].(time.Time)
	case strings.Contains(sql, "DELETE FROM cart_items"):
		delete(db.items, args[0].(string))
	case strings.Contains(sql, "DELETE FROM carts"):
		id := args[0].(string)
		delete(db.carts, id)
		delete(db.items, id)
	}
}

func (db *fakeDB) queryRow(args []any) pgx.Row {
	ts, ok := db.carts[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	if len(args) > 1 && ts.Before(args[1].(time.Time)) {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{vals: []any{ts}}
}

func (db *fakeDB) query(args []any) pgx.Rows {
	return &fakeRows{rows: append([][]any(nil), db.items[args[0].(string)]...)}
}

// sendBatch guarda las columnas desde product_id; las filas llegan ordenadas por position.
func (db *fakeDB) sendBatch(b *pgx.Batch) pgx.BatchResults {
	for _, qq := range b.QueuedQueries {
		id := qq.Arguments[0].(string)
		db.items[id] = append(db.items[id], qq.Arguments[2:])
	}
	return fakeBatchResults{}
}

// scanInto copia vals en los punteros dest.
func scanInto(vals []any, dest []any) {
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(vals[i]))
	}
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	scanInto(r.vals, dest)
	return nil
}

type fakeRows struct {
	pgx.Rows
	rows [][]any
	idx  int
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	scanInto(r.rows[r.idx-1], dest)
	return nil
}

func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

type fakeBatchResults struct {
	pgx.BatchResults
}

func (fakeBatchResults) Close() error { return nil }

// fakeTx registra las sentencias y el cierre de la transacción. Con db != nil las aplica.
type fakeTx struct {
	pgx.Tx
	db         *fakeDB
	execs      []string
	queries    []string
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, sql)
	if t.db != nil {
		t.db.exec(sql, args)
	}
	return pgconn.NewCommandTag("OK"), nil
}

func (t *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	t.queries = append(t.queries, sql)
	return t.db.queryRow(args)
}

func (t *fakeTx) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.queries = append(t.queries, sql)
	return t.db.query(args), nil
}

func (t *fakeTx) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	return t.db.sendBatch(b)
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

// fakeQuerier hace de pool. Con db != nil cada Begin abre una fakeTx nueva y la deja en tx.
type fakeQuerier struct {
	Querier
	db       *fakeDB
	tx       *fakeTx
	beginErr error
}

func (q *fakeQuerier) Begin(context.Context) (pgx.Tx, error) {
	if q.beginErr != nil {
		return nil, q.beginErr
	}
	if q.db != nil {
		q.tx = &fakeTx{db: q.db}
	}
	return q.tx, nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	return q.db.queryRow(args)
}

func (q *fakeQuerier) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	return q.db.query(args), nil
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.db.exec(sql, args)
	return pgconn.NewCommandTag("DELETE 1"), nil
}
