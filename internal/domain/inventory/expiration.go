package inventory

import "github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"

const (
	DefaultExpiringSoonDays   = 7
	DefaultExpiringUrgentDays = 3
)

// ExpirationWindows ventanas (en días) para graduar alertas de caducidad.
type ExpirationWindows struct {
	SoonDays   int
	UrgentDays int
}

// DefaultExpirationWindows 7 días WARNING, 3 días URGENT.
func DefaultExpirationWindows() ExpirationWindows {
	return ExpirationWindows{SoonDays: DefaultExpiringSoonDays, UrgentDays: DefaultExpiringUrgentDays}
}

// ExpirationLevel gradúa los días hasta caducar. ok=false significa "sin alerta".
//
//	days < 0           → CRITICAL, retirar / dar de baja
//	days ≤ UrgentDays  → URGENT, consumo interno
//	days ≤ SoonDays    → WARNING, promoción
func ExpirationLevel(days int, w ExpirationWindows) (entity.AlertLevel, entity.ExpirationAction, bool) {
	switch {
	case days < 0:
		return entity.AlertCritical, entity.ActionDelist, true
	case days <= w.UrgentDays:
		return entity.AlertUrgent, entity.ActionInternalConsumption, true
	case days <= w.SoonDays:
		return entity.AlertWarning, entity.ActionPromotion, true
	default:
		return entity.AlertInfo, "", false
	}
}
