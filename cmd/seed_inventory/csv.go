package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
)

// decoderFor devuelve el decodificador del export del POS. "auto" elige UTF-8 si los bytes
// son válidos y GBK en caso contrario (los POS de las tiendas exportan en GBK por defecto).
func decoderFor(name string, raw []byte) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "utf8", "utf-8":
		return encoding.Nop, nil
	case "gbk", "gb2312":
		return simplifiedchinese.GBK, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "auto", "":
		if utf8.Valid(raw) {
			return encoding.Nop, nil
		}
		return simplifiedchinese.GBK, nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", name)
	}
}

// readRows decodifica y parte el CSV; la primera fila es el encabezado.
func readRows(raw []byte, enc string) ([]map[string]string, error) {
	e, err := decoderFor(enc, raw)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")) // BOM de Excel
	r := csv.NewReader(transform.NewReader(bytes.NewReader(raw), e.NewDecoder()))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]string
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		row["_line"] = strconv.Itoa(line)
		rows = append(rows, row)
	}
	return rows, nil
}

// parseItems columnas: id, store_id, name, category, unit, current_stock, safe_stock,
// min_stock, max_stock, unit_cost, supplier_id, lead_time_days, expiration_date, location.
func parseItems(raw []byte, enc string) ([]entity.InventoryItem, error) {
	rows, err := readRows(raw, enc)
	if err != nil {
		return nil, err
	}
	items := make([]entity.InventoryItem, 0, len(rows))
	for _, row := range rows {
		line := row["_line"]
		if row["id"] == "" || row["store_id"] == "" {
			return nil, fmt.Errorf("línea %s: id y store_id son requeridos", line)
		}
		it := entity.InventoryItem{
			ID:         row["id"],
			StoreID:    row["store_id"],
			Name:       row["name"],
			Category:   row["category"],
			Unit:       row["unit"],
			SupplierID: row["supplier_id"],
			Location:   row["location"],
		}
		for _, f := range []struct {
			col string
			dst *decimal.Decimal
		}{
			{"current_stock", &it.CurrentStock},
			{"safe_stock", &it.SafeStock},
			{"min_stock", &it.MinStock},
			{"max_stock", &it.MaxStock},
		} {
			if *f.dst, err = parseDecimal(row[f.col]); err != nil {
				return nil, fmt.Errorf("línea %s: %s: %w", line, f.col, err)
			}
		}
		if it.UnitCost, err = parseInt64(row["unit_cost"]); err != nil {
			return nil, fmt.Errorf("línea %s: unit_cost: %w", line, err)
		}
		lead, err := parseInt64(row["lead_time_days"])
		if err != nil {
			return nil, fmt.Errorf("línea %s: lead_time_days: %w", line, err)
		}
		it.LeadTimeDays = int(lead)
		if s := row["expiration_date"]; s != "" {
			d, err := parseDate(s)
			if err != nil {
				return nil, fmt.Errorf("línea %s: expiration_date: %w", line, err)
			}
			it.ExpirationDate = &d
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("línea %s: %w", line, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// parseConsumption columnas: item_id, date, quantity.
func parseConsumption(raw []byte, enc string) ([]entity.ConsumptionRecord, error) {
	rows, err := readRows(raw, enc)
	if err != nil {
		return nil, err
	}
	out := make([]entity.ConsumptionRecord, 0, len(rows))
	for _, row := range rows {
		line := row["_line"]
		if row["item_id"] == "" {
			return nil, fmt.Errorf("línea %s: item_id requerido", line)
		}
		d, err := parseDate(row["date"])
		if err != nil {
			return nil, fmt.Errorf("línea %s: date: %w", line, err)
		}
		q, err := parseDecimal(row["quantity"])
		if err != nil {
			return nil, fmt.Errorf("línea %s: quantity: %w", line, err)
		}
		if q.IsNegative() {
			return nil, fmt.Errorf("línea %s: quantity negativa", line)
		}
		out = append(out, entity.ConsumptionRecord{ItemID: row["item_id"], Date: d, QuantityConsumed: q})
	}
	return out, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func parseInt64(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// parseDate acepta 2006-01-02 y 2006/01/02 (export de Excel).
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006/01/02"} {
		if d, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida %q", s)
}
