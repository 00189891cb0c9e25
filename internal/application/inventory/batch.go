package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/dto"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
)

// Códigos de error expuestos a los sinks (lotes y HTTP).
const (
	CodeValidation          = "VALIDATION"
	CodeNotFound            = "NOT_FOUND"
	CodeInsufficientData    = "INSUFFICIENT_DATA"
	CodeInsufficientHistory = "INSUFFICIENT_HISTORY"
	CodeInvalidThreshold    = "INVALID_THRESHOLD"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL"
)

// ErrorCode traduce un error de dominio a su código estable.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		return CodeInsufficientData
	case errors.Is(err, domain.ErrInsufficientHistory):
		return CodeInsufficientHistory
	case errors.Is(err, domain.ErrInvalidThreshold):
		return CodeInvalidThreshold
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return CodeUpstreamUnavailable
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return CodeValidation
	default:
		return CodeInternal
	}
}

// upstream garantiza que un fallo del proveedor llegue como UpstreamUnavailableError,
// aunque el adaptador no lo haya envuelto. Las cancelaciones del caller pasan tal cual.
func upstream(op string, err error) error {
	if err == nil || errors.Is(err, domain.ErrUpstreamUnavailable) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.Upstream(op, err)
}

// evalFunc evalúa un ítem. (nil, nil) significa "sin resultado" (p. ej. stock suficiente).
type evalFunc[T any] func(ctx context.Context, item entity.InventoryItem) (*T, error)

// fanOut evalúa los ítems en paralelo con a lo sumo workers goroutines.
// Los resultados conservan el orden del snapshot; los errores por ítem se devuelven como
// ItemFailure y nunca abortan el lote. Solo la cancelación del contexto corta la corrida.
func fanOut[T any](ctx context.Context, workers int, items []entity.InventoryItem, fn evalFunc[T]) ([]T, []dto.ItemFailure, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*T, len(items))
	errs := make([]error, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, items[i])
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = err
				return nil
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := make([]T, 0, len(items))
	failures := make([]dto.ItemFailure, 0)
	for i := range items {
		if errs[i] != nil {
			failures = append(failures, dto.ItemFailure{
				ItemID:  items[i].ID,
				Code:    ErrorCode(errs[i]),
				Message: errs[i].Error(),
			})
			continue
		}
		if results[i] != nil {
			out = append(out, *results[i])
		}
	}
	return out, failures, nil
}

// alertNamespace espacio de nombres de los ids de alerta (UUIDv5).
var alertNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:inventory-engine:alert"))

// alertID id determinista: mismo tipo, ítem y bucket de tiempo → mismo id.
// Regenerar alertas dentro del mismo bucket no produce ids nuevos.
func alertID(kind, itemID string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Hour
	}
	start := at.UTC().Truncate(bucket)
	name := fmt.Sprintf("%s|%s|%s", kind, itemID, start.Format(time.RFC3339))
	return uuid.NewSHA1(alertNamespace, []byte(name)).String()
}
