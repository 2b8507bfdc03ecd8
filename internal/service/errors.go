package service

import (
	"errors"
	"fmt"
)

// Errores de secuenciamiento del flujo.
var (
	ErrSessionNotFound = errors.New("flow session not found")
	ErrFlowBusy        = errors.New("flow operation already in flight")
)

// ValidationError indica input requerido ausente o fuera de rango.
// Es recuperable localmente: se corrige el input, no hay retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// EstimatorFailReason clasifica los fallos del estimador remoto.
type EstimatorFailReason string

const (
	ReasonUnauthenticated  EstimatorFailReason = "unauthenticated"
	ReasonTransportFailure EstimatorFailReason = "transport_failure"
	ReasonInvalidResponse  EstimatorFailReason = "invalid_response"
)

// EstimatorError es el fallo explicito de la estimacion remota. El estimador
// nunca cae solo a la heuristica local: esa decision es del caller.
type EstimatorError struct {
	Reason EstimatorFailReason
	Err    error
}

func (e *EstimatorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("estimator: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("estimator: %s", e.Reason)
}

func (e *EstimatorError) Unwrap() error {
	return e.Err
}

// RenderFailReason clasifica los fallos del paso de render.
type RenderFailReason string

const (
	RenderUnauthenticated RenderFailReason = "unauthenticated"
	RenderRateLimited     RenderFailReason = "rate_limited"
	RenderGeneration      RenderFailReason = "generation"
)

// RenderError detiene el flujo en Failed; requiere retry explicito del
// usuario y jamas se sustituye por un artefacto local.
type RenderError struct {
	Reason RenderFailReason
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("render: %s", e.Reason)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ResourceError es un fallo local de decodificacion o asignacion. Se degrada
// como un fallo de estimacion cuando el paso siguiente tolera datos ausentes.
type ResourceError struct {
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource: %v", e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// InvalidTransitionError indica un evento no valido para el estado actual.
type InvalidTransitionError struct {
	From  string
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: event %s in state %s", e.Event, e.From)
}
