package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/repository"
)

var _ repository.AlertRegistry = (*AlertRegistry)(nil)

const alertKeyPrefix = "inventory:alert:"

// AlertRegistry recuerda los alert_id emitidos durante ttl con SETNX.
type AlertRegistry struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewAlertRegistry construye el registro. ttl ≤ 0 usa 48h.
func NewAlertRegistry(client *goredis.Client, ttl time.Duration) *AlertRegistry {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &AlertRegistry{client: client, ttl: ttl}
}

// MarkSeen devuelve true si alertID no se había registrado antes.
func (r *AlertRegistry) MarkSeen(ctx context.Context, alertID string) (bool, error) {
	ok, err := r.client.SetNX(ctx, alertKeyPrefix+alertID, time.Now().UTC().Unix(), r.ttl).Result()
	if err != nil {
		return false, domain.Upstream("redis: mark alert seen", err)
	}
	return ok, nil
}
