package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/repository"

	_ "modernc.org/sqlite"
)

var _ repository.InventorySnapshotRepository = (*SnapshotRepo)(nil)

const dateLayout = "2006-01-02"

// SnapshotRepo proveedor de snapshot embebido (una tienda, demos locales).
// Las cantidades se guardan como TEXT para no perder precisión decimal.
type SnapshotRepo struct {
	db *sql.DB
}

// Open abre (o crea) la base en path y aplica el esquema. ":memory:" sirve para tests.
func Open(ctx context.Context, path string) (*SnapshotRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Con :memory: cada conexión es una base distinta.
	db.SetMaxOpenConns(1)
	repo := &SnapshotRepo{db: db}
	if err := repo.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close libera la base.
func (r *SnapshotRepo) Close() error { return r.db.Close() }

func (r *SnapshotRepo) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS inventory_items (
			id              TEXT PRIMARY KEY,
			store_id        TEXT NOT NULL,
			name            TEXT NOT NULL,
			category        TEXT NOT NULL DEFAULT '',
			unit            TEXT NOT NULL DEFAULT '',
			current_stock   TEXT NOT NULL DEFAULT '0',
			safe_stock      TEXT NOT NULL DEFAULT '0',
			min_stock       TEXT NOT NULL DEFAULT '0',
			max_stock       TEXT NOT NULL DEFAULT '0',
			unit_cost       INTEGER NOT NULL DEFAULT 0,
			supplier_id     TEXT NOT NULL DEFAULT '',
			lead_time_days  INTEGER NOT NULL DEFAULT 0,
			expiration_date TEXT,
			location        TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_items_store ON inventory_items (store_id, category)`,
		`CREATE TABLE IF NOT EXISTS consumption_records (
			item_id     TEXT NOT NULL,
			consumed_on TEXT NOT NULL,
			quantity    TEXT NOT NULL,
			PRIMARY KEY (item_id, consumed_on)
		)`,
	}
	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrar sqlite: %w", err)
		}
	}
	return nil
}

const itemColumns = `id, store_id, name, category, unit, current_stock, safe_stock, min_stock, max_stock,
	unit_cost, supplier_id, lead_time_days, expiration_date, location`

func (r *SnapshotRepo) FetchSnapshot(ctx context.Context, storeID, category string) ([]entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items
		WHERE store_id = ? AND (? = '' OR category = ?)
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, storeID, category, category)
	if err != nil {
		return nil, domain.Upstream("sqlite: fetch snapshot", err)
	}
	defer func() { _ = rows.Close() }()

	list := make([]entity.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, domain.Upstream("sqlite: scan inventory item", err)
		}
		list = append(list, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Upstream("sqlite: fetch snapshot", err)
	}
	return list, nil
}

func (r *SnapshotRepo) FetchHistory(ctx context.Context, itemID string, since time.Time) ([]entity.ConsumptionRecord, error) {
	query := `SELECT item_id, consumed_on, quantity FROM consumption_records
		WHERE item_id = ? AND consumed_on >= ?
		ORDER BY consumed_on`
	rows, err := r.db.QueryContext(ctx, query, itemID, since.UTC().Format(dateLayout))
	if err != nil {
		return nil, domain.Upstream("sqlite: fetch history", err)
	}
	defer func() { _ = rows.Close() }()

	var list []entity.ConsumptionRecord
	for rows.Next() {
		var (
			rec      entity.ConsumptionRecord
			day, qty string
		)
		if err := rows.Scan(&rec.ItemID, &day, &qty); err != nil {
			return nil, domain.Upstream("sqlite: scan consumption record", err)
		}
		if rec.Date, err = time.Parse(dateLayout, day); err != nil {
			return nil, domain.Upstream("sqlite: parse consumed_on", err)
		}
		if rec.QuantityConsumed, err = decimal.NewFromString(qty); err != nil {
			return nil, domain.Upstream("sqlite: parse quantity", err)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Upstream("sqlite: fetch history", err)
	}
	return list, nil
}

func (r *SnapshotRepo) GetItem(ctx context.Context, itemID string) (*entity.InventoryItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = ?`, itemID)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Upstream("sqlite: get item", err)
	}
	return item, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*entity.InventoryItem, error) {
	var (
		it                      entity.InventoryItem
		current, safe, min, max string
		exp                     sql.NullString
	)
	if err := row.Scan(
		&it.ID, &it.StoreID, &it.Name, &it.Category, &it.Unit,
		&current, &safe, &min, &max,
		&it.UnitCost, &it.SupplierID, &it.LeadTimeDays, &exp, &it.Location,
	); err != nil {
		return nil, err
	}
	var err error
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&it.CurrentStock, current}, {&it.SafeStock, safe}, {&it.MinStock, min}, {&it.MaxStock, max},
	} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return nil, fmt.Errorf("ítem %s: cantidad %q: %w", it.ID, f.src, err)
		}
	}
	if exp.Valid && exp.String != "" {
		d, err := time.Parse(dateLayout, exp.String)
		if err != nil {
			return nil, fmt.Errorf("ítem %s: expiration_date %q: %w", it.ID, exp.String, err)
		}
		it.ExpirationDate = &d
	}
	return &it, nil
}

// UpsertItems carga o reemplaza ítems del snapshot.
func (r *SnapshotRepo) UpsertItems(ctx context.Context, items []entity.InventoryItem) error {
	query := `INSERT OR REPLACE INTO inventory_items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, it := range items {
		var exp any
		if it.ExpirationDate != nil {
			exp = it.ExpirationDate.UTC().Format(dateLayout)
		}
		if _, err := r.db.ExecContext(ctx, query,
			it.ID, it.StoreID, it.Name, it.Category, it.Unit,
			it.CurrentStock.String(), it.SafeStock.String(), it.MinStock.String(), it.MaxStock.String(),
			it.UnitCost, it.SupplierID, it.LeadTimeDays, exp, it.Location,
		); err != nil {
			return fmt.Errorf("upsert item %s: %w", it.ID, err)
		}
	}
	return nil
}

// AddConsumption suma registros de consumo por día.
func (r *SnapshotRepo) AddConsumption(ctx context.Context, records []entity.ConsumptionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range records {
		day := rec.Date.UTC().Format(dateLayout)
		var prev string
		err := tx.QueryRowContext(ctx,
			`SELECT quantity FROM consumption_records WHERE item_id = ? AND consumed_on = ?`, rec.ItemID, day,
		).Scan(&prev)
		total := rec.QuantityConsumed
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("leer consumo %s: %w", rec.ItemID, err)
		default:
			p, perr := decimal.NewFromString(prev)
			if perr != nil {
				return fmt.Errorf("consumo %s: %w", rec.ItemID, perr)
			}
			total = total.Add(p)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO consumption_records (item_id, consumed_on, quantity) VALUES (?, ?, ?)`,
			rec.ItemID, day, total.String(),
		); err != nil {
			return fmt.Errorf("guardar consumo %s: %w", rec.ItemID, err)
		}
	}
	return tx.Commit()
}
