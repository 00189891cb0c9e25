package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/repository"
)

var _ repository.InventorySnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo implementación de InventorySnapshotRepository sobre PostgreSQL.
// Los NUMERIC llegan como decimal.Decimal gracias al codec registrado en NewPool.
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

const itemColumns = `
	id, store_id, name, category, unit, current_stock, safe_stock, min_stock, max_stock,
	unit_cost, supplier_id, lead_time_days, expiration_date, location`

func (r *SnapshotRepo) FetchSnapshot(ctx context.Context, storeID, category string) ([]entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE store_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, storeID, category)
	if err != nil {
		return nil, domain.Upstream("postgres: fetch snapshot", err)
	}
	defer rows.Close()

	list := make([]entity.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, domain.Upstream("postgres: scan inventory item", err)
		}
		list = append(list, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Upstream("postgres: fetch snapshot", err)
	}
	return list, nil
}

func (r *SnapshotRepo) FetchHistory(ctx context.Context, itemID string, since time.Time) ([]entity.ConsumptionRecord, error) {
	query := `
		SELECT item_id, consumed_on, quantity
		FROM consumption_records
		WHERE item_id = $1 AND consumed_on >= $2
		ORDER BY consumed_on`
	rows, err := r.q.Query(ctx, query, itemID, since)
	if err != nil {
		return nil, domain.Upstream("postgres: fetch history", err)
	}
	defer rows.Close()

	var list []entity.ConsumptionRecord
	for rows.Next() {
		var rec entity.ConsumptionRecord
		if err := rows.Scan(&rec.ItemID, &rec.Date, &rec.QuantityConsumed); err != nil {
			return nil, domain.Upstream("postgres: scan consumption record", err)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Upstream("postgres: fetch history", err)
	}
	return list, nil
}

func (r *SnapshotRepo) GetItem(ctx context.Context, itemID string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	item, err := scanItem(r.q.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Upstream("postgres: get item", err)
	}
	return item, nil
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var (
		it  entity.InventoryItem
		exp *time.Time
	)
	err := row.Scan(
		&it.ID, &it.StoreID, &it.Name, &it.Category, &it.Unit,
		&it.CurrentStock, &it.SafeStock, &it.MinStock, &it.MaxStock,
		&it.UnitCost, &it.SupplierID, &it.LeadTimeDays, &exp, &it.Location,
	)
	if err != nil {
		return nil, err
	}
	it.ExpirationDate = exp
	return &it, nil
}

// UpsertItems carga un snapshot (lo usan la herramienta de seed y los tests de integración).
func UpsertItems(ctx context.Context, q Querier, items []entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			store_id = EXCLUDED.store_id, name = EXCLUDED.name, category = EXCLUDED.category,
			unit = EXCLUDED.unit, current_stock = EXCLUDED.current_stock,
			safe_stock = EXCLUDED.safe_stock, min_stock = EXCLUDED.min_stock,
			max_stock = EXCLUDED.max_stock, unit_cost = EXCLUDED.unit_cost,
			supplier_id = EXCLUDED.supplier_id, lead_time_days = EXCLUDED.lead_time_days,
			expiration_date = EXCLUDED.expiration_date, location = EXCLUDED.location`
	for _, it := range items {
		if _, err := q.Exec(ctx, query,
			it.ID, it.StoreID, it.Name, it.Category, it.Unit,
			it.CurrentStock, it.SafeStock, it.MinStock, it.MaxStock,
			it.UnitCost, it.SupplierID, it.LeadTimeDays, it.ExpirationDate, it.Location,
		); err != nil {
			return domain.Upstream("postgres: upsert item "+it.ID, err)
		}
	}
	return nil
}

// InsertConsumption agrega registros de consumo; si el día ya existe se suma la cantidad.
func InsertConsumption(ctx context.Context, q Querier, records []entity.ConsumptionRecord) error {
	query := `
		INSERT INTO consumption_records (item_id, consumed_on, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id, consumed_on)
		DO UPDATE SET quantity = consumption_records.quantity + EXCLUDED.quantity`
	for _, rec := range records {
		qty := rec.QuantityConsumed
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		if _, err := q.Exec(ctx, query, rec.ItemID, rec.Date, qty); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("consumo de ítem %s: %w", rec.ItemID, domain.ErrNotFound)
			}
			return domain.Upstream("postgres: insert consumption "+rec.ItemID, err)
		}
	}
	return nil
}
