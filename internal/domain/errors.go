package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInsufficientData    = errors.New("historial de consumo vacío")
	ErrInsufficientHistory = errors.New("historial insuficiente para optimizar niveles")
	ErrInvalidThreshold    = errors.New("umbrales de stock inválidos")
	ErrUpstreamUnavailable = errors.New("proveedor de inventario no disponible")
)

// InsufficientDataError se devuelve cuando se pide un pronóstico sin ningún registro de consumo.
// El caller decide si omite el ítem o usa un valor degradado.
type InsufficientDataError struct {
	ItemID string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("ítem %s: %s", e.ItemID, ErrInsufficientData)
}

// Is permite errors.Is(err, ErrInsufficientData).
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// InsufficientHistoryError: el optimizador necesita al menos Required días de historial.
type InsufficientHistoryError struct {
	ItemID    string
	Available int
	Required  int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("ítem %s: %s (%d días disponibles, %d requeridos)",
		e.ItemID, ErrInsufficientHistory, e.Available, e.Required)
}

func (e *InsufficientHistoryError) Is(target error) bool { return target == ErrInsufficientHistory }

// InvalidThresholdError: no se cumple 0 ≤ min ≤ safe ≤ max (o lead time negativo).
type InvalidThresholdError struct {
	ItemID string
	Detail string
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("ítem %s: %s: %s", e.ItemID, ErrInvalidThreshold, e.Detail)
}

func (e *InvalidThresholdError) Is(target error) bool { return target == ErrInvalidThreshold }

// UpstreamUnavailableError envuelve fallos del adaptador POS/ERP. El core no reintenta;
// la política de reintentos pertenece al adaptador.
type UpstreamUnavailableError struct {
	Op  string
	Err error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrUpstreamUnavailable, e.Err)
}

func (e *UpstreamUnavailableError) Is(target error) bool { return target == ErrUpstreamUnavailable }

func (e *UpstreamUnavailableError) Unwrap() error { return e.Err }

// Upstream envuelve err como UpstreamUnavailableError; nil si err es nil.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamUnavailableError{Op: op, Err: err}
}
