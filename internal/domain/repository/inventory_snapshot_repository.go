package repository

import (
	"context"
	"time"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
)

// InventorySnapshotRepository puerto de lectura hacia el POS/ERP (DIP).
// El motor nunca escribe inventario; cualquier fallo del proveedor debe llegar
// envuelto como *domain.UpstreamUnavailableError.
type InventorySnapshotRepository interface {
	// FetchSnapshot devuelve el snapshot actual de la tienda; category vacío = todas.
	FetchSnapshot(ctx context.Context, storeID, category string) ([]entity.InventoryItem, error)
	// FetchHistory devuelve los registros de consumo del ítem con fecha ≥ since.
	FetchHistory(ctx context.Context, itemID string, since time.Time) ([]entity.ConsumptionRecord, error)
	// GetItem devuelve (nil, nil) si el ítem no existe.
	GetItem(ctx context.Context, itemID string) (*entity.InventoryItem, error)
}
