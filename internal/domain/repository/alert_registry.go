package repository

import "context"

// AlertRegistry recuerda qué alertas ya se emitieron, para marcar las nuevas.
type AlertRegistry interface {
	// MarkSeen registra alertID y devuelve true si es la primera vez que se ve.
	MarkSeen(ctx context.Context, alertID string) (bool, error)
}
