package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"optibill-backend/internal/config"
	"optibill-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Repo struct {
	pool   *pgxpool.Pool
	tables config.Tables
}

func New(pool *pgxpool.Pool, t config.Tables) *Repo { return &Repo{pool: pool, tables: t} }

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func (r *Repo) qt() string {
	return fmt.Sprintf(`"%s"."%s"`, r.tables.Schema, r.tables.Orders)
}

// Bootstrap creates the orders table and the unique (branch_id, bill_no)
// index. The index is what turns a concurrent duplicate bill number into a
// retryable conflict instead of silent data corruption.
func (r *Repo) Bootstrap(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id             TEXT PRIMARY KEY,
			branch_id      TEXT NOT NULL,
			bill_no        INTEGER NOT NULL,
			salesman_id    TEXT NOT NULL DEFAULT '',
			name           TEXT NOT NULL,
			contact        TEXT NOT NULL,
			date           TEXT NOT NULL,
			frame          TEXT NOT NULL DEFAULT '',
			glass          TEXT NOT NULL DEFAULT '',
			contact_lens   TEXT NOT NULL DEFAULT '',
			total          TEXT NOT NULL,
			advance        TEXT NOT NULL DEFAULT '',
			balance        TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			payment_type   TEXT NOT NULL DEFAULT '',
			prescription   JSONB NOT NULL DEFAULT '{}',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (branch_id, bill_no)
		)
	`, r.qt()))
	if err != nil {
		return storeErr(err)
	}
	return nil
}

const orderColumns = `
	id, branch_id, bill_no, salesman_id, name, contact, date,
	frame, glass, contact_lens, total, advance, balance,
	payment_status, payment_type, prescription, created_at`

func (r *Repo) Find(ctx context.Context, scope domain.Scope, onlyPending bool) ([]domain.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE branch_id = ANY($1)`, orderColumns, r.qt())
	if onlyPending {
		q += ` AND payment_status = 'pending'`
	}
	q += ` ORDER BY created_at DESC, bill_no DESC`

	rows, err := r.pool.Query(ctx, q, []string(scope))
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return orders, nil
}

func (r *Repo) FindOne(ctx context.Context, scope domain.Scope, billNo int, onlyPending bool) (*domain.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE branch_id = ANY($1) AND bill_no = $2`, orderColumns, r.qt())
	if onlyPending {
		q += ` AND payment_status = 'pending'`
	}
	q += ` ORDER BY created_at DESC LIMIT 1`

	o, err := scanOrder(r.pool.QueryRow(ctx, q, []string(scope), billNo))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return o, err
}

func (r *Repo) FindLatestByBranch(ctx context.Context, branchID string) (*domain.Order, error) {
	q := fmt.Sprintf(
		`SELECT %s FROM %s WHERE branch_id = $1 ORDER BY bill_no DESC LIMIT 1`,
		orderColumns, r.qt(),
	)
	o, err := scanOrder(r.pool.QueryRow(ctx, q, branchID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return o, err
}

func (r *Repo) Insert(ctx context.Context, o *domain.Order) error {
	prescription, err := json.Marshal(o.Prescription)
	if err != nil {
		return fmt.Errorf("marshal prescription: %w", err)
	}

	err = r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, branch_id, bill_no, salesman_id, name, contact, date,
			frame, glass, contact_lens, total, advance, balance,
			payment_status, payment_type, prescription)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING created_at
	`, r.qt()),
		o.ID, o.BranchID, o.BillNo, o.SalesmanID, o.Name, o.Contact, o.Date,
		o.Frame, o.Glass, o.ContactLens, o.Total, o.Advance, o.Balance,
		string(o.PaymentStatus), string(o.PaymentType), prescription,
	).Scan(&o.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrConflict
	}
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// UpdateOne locks the scoped row, applies the patch (derived monetary
// fields included) and writes the result back, all in one transaction.
func (r *Repo) UpdateOne(ctx context.Context, scope domain.Scope, billNo int, patch domain.OrderPatch, onlyPending bool) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	defer tx.Rollback(ctx)

	q := fmt.Sprintf(`SELECT %s FROM %s WHERE branch_id = ANY($1) AND bill_no = $2`, orderColumns, r.qt())
	if onlyPending {
		q += ` AND payment_status = 'pending'`
	}
	q += ` ORDER BY created_at DESC LIMIT 1 FOR UPDATE`

	o, err := scanOrder(tx.QueryRow(ctx, q, []string(scope), billNo))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(o); err != nil {
		return nil, err
	}

	prescription, err := json.Marshal(o.Prescription)
	if err != nil {
		return nil, fmt.Errorf("marshal prescription: %w", err)
	}

	_, err = tx.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET
			salesman_id = $2, name = $3, contact = $4, date = $5,
			frame = $6, glass = $7, contact_lens = $8,
			total = $9, advance = $10, balance = $11,
			payment_status = $12, payment_type = $13, prescription = $14
		WHERE id = $1
	`, r.qt()),
		o.ID, o.SalesmanID, o.Name, o.Contact, o.Date,
		o.Frame, o.Glass, o.ContactLens,
		o.Total, o.Advance, o.Balance,
		string(o.PaymentStatus), string(o.PaymentType), prescription,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr(err)
	}
	return o, nil
}

// DeleteOne removes the single row FindOne would resolve. Bill numbers
// restart at 1 per branch, so a bare branch_id = ANY(scope) predicate would
// match one row per branch for a multi-branch caller.
func (r *Repo) DeleteOne(ctx context.Context, scope domain.Scope, billNo int) (bool, error) {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s WHERE id = (
			SELECT id FROM %s
			WHERE branch_id = ANY($1) AND bill_no = $2
			ORDER BY created_at DESC LIMIT 1
		)
	`, r.qt(), r.qt()),
		[]string(scope), billNo,
	)
	if err != nil {
		return false, storeErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status, ptype string
	var prescription []byte

	err := row.Scan(
		&o.ID, &o.BranchID, &o.BillNo, &o.SalesmanID, &o.Name, &o.Contact, &o.Date,
		&o.Frame, &o.Glass, &o.ContactLens, &o.Total, &o.Advance, &o.Balance,
		&status, &ptype, &prescription, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, storeErr(err)
	}

	o.PaymentStatus = domain.PaymentStatus(status)
	o.PaymentType = domain.PaymentType(ptype)
	if len(prescription) > 0 {
		if err := json.Unmarshal(prescription, &o.Prescription); err != nil {
			return nil, fmt.Errorf("unmarshal prescription: %w", err)
		}
	}
	return &o, nil
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
