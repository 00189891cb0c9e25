// seed_inventory carga el export CSV del POS (ítems y consumo diario) en las tablas del snapshot.
//
// Uso:
//
//	go run ./cmd/seed_inventory --items items.csv --consumption consumo.csv [--encoding auto|utf8|gbk|latin1]
//	    [--target sql|sqlite|postgres] [--out seed.sql] [--sqlite-path inventory.db]
//
// target=sql (default) escribe un script re-ejecutable; sqlite y postgres cargan directo
// (postgres toma la conexión de las mismas variables DB_* / DATABASE_URL que la API).
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/pflag"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/inventory"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/infrastructure/postgres"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/infrastructure/sqlite"
	"github.com/hnrm110901-cell/zhilian-os-sub005/pkg/config"
	"github.com/hnrm110901-cell/zhilian-os-sub005/pkg/logger"
)

func main() {
	itemsPath := pflag.String("items", "", "CSV de ítems")
	consumptionPath := pflag.String("consumption", "", "CSV de consumo diario")
	enc := pflag.String("encoding", "auto", "codificación del CSV: auto, utf8, gbk, latin1")
	target := pflag.String("target", "sql", "destino: sql, sqlite o postgres")
	outPath := pflag.String("out", "seed_inventory.sql", "archivo de salida (target=sql)")
	sqlitePath := pflag.String("sqlite-path", "inventory.db", "base SQLite (target=sqlite)")
	pflag.Parse()

	log := logger.New(logger.Config{Env: "development", Level: "info", Service: "seed_inventory"})

	if *itemsPath == "" && *consumptionPath == "" {
		fmt.Fprintln(os.Stderr, "indique --items y/o --consumption")
		pflag.Usage()
		os.Exit(2)
	}

	var items []entity.InventoryItem
	if *itemsPath != "" {
		raw, err := os.ReadFile(*itemsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("leer CSV de ítems")
		}
		if items, err = parseItems(raw, *enc); err != nil {
			log.Fatal().Err(err).Str("file", *itemsPath).Msg("CSV de ítems inválido")
		}
	}
	var records []entity.ConsumptionRecord
	if *consumptionPath != "" {
		raw, err := os.ReadFile(*consumptionPath)
		if err != nil {
			log.Fatal().Err(err).Msg("leer CSV de consumo")
		}
		if records, err = parseConsumption(raw, *enc); err != nil {
			log.Fatal().Err(err).Str("file", *consumptionPath).Msg("CSV de consumo inválido")
		}
		records = mergeByDay(records)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch *target {
	case "sql":
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal().Err(err).Msg("crear archivo de salida")
		}
		defer f.Close()
		if err := writeSQL(f, items, records); err != nil {
			log.Fatal().Err(err).Msg("escribir SQL")
		}
		log.Info().Str("out", *outPath).Msg("script generado")

	case "sqlite":
		repo, err := sqlite.Open(ctx, *sqlitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir SQLite")
		}
		defer repo.Close()
		if err := repo.UpsertItems(ctx, items); err != nil {
			log.Fatal().Err(err).Msg("cargar ítems")
		}
		if err := repo.AddConsumption(ctx, records); err != nil {
			log.Fatal().Err(err).Msg("cargar consumo")
		}

	case "postgres":
		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("cargar configuración")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrar esquema")
		}
		err = postgres.NewTxRunner(pool).Run(ctx, func(q postgres.Querier) error {
			if err := postgres.UpsertItems(ctx, q, items); err != nil {
				return err
			}
			return postgres.InsertConsumption(ctx, q, records)
		})
		if err != nil {
			log.Fatal().Err(err).Msg("cargar snapshot")
		}

	default:
		log.Fatal().Str("target", *target).Msg("target desconocido (sql|sqlite|postgres)")
	}

	log.Info().
		Int("items", len(items)).
		Int("consumption_days", len(records)).
		Str("target", *target).
		Msg("seed completado")
}

// mergeByDay suma los registros del mismo ítem y día (el POS exporta un registro por ticket).
func mergeByDay(records []entity.ConsumptionRecord) []entity.ConsumptionRecord {
	type key struct {
		item string
		day  time.Time
	}
	idx := make(map[key]int, len(records))
	out := make([]entity.ConsumptionRecord, 0, len(records))
	for _, r := range records {
		k := key{r.ItemID, inventory.Day(r.Date)}
		if i, ok := idx[k]; ok {
			out[i].QuantityConsumed = out[i].QuantityConsumed.Add(r.QuantityConsumed)
			continue
		}
		idx[k] = len(out)
		r.Date = k.day
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
