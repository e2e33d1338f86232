package domain

import (
	"errors"
	"fmt"
)

// Tipos de error de dominio (sin dependencias externas). Se comparan con errors.Is
// y la capa HTTP los traduce a códigos de estado en un único lugar.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrConflict     = errors.New("conflict with existing resource")
)

// Error es un error de dominio etiquetado: Kind es uno de los errores de arriba,
// Message el texto para el cliente y Fields datos estructurados opcionales.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

// Unwrap permite errors.Is(err, domain.ErrNotFound) y similares.
func (e *Error) Unwrap() error { return e.Kind }

// With añade un campo estructurado y devuelve el mismo error.
func (e *Error) With(key string, value any) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// NotFound construye un error "no encontrado" para una entidad e identificador.
func NotFound(entity string, id any) *Error {
	return (&Error{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", entity, id),
	}).With("entity", entity).With("id", id)
}

// Invalid construye un error de validación de entrada.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// InvalidState construye un error de transición de estado no permitida.
func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Conflict construye un error de unicidad o colisión con datos existentes.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf devuelve el tipo de error de dominio, o nil si err no es de dominio.
func KindOf(err error) error {
	for _, k := range []error{ErrNotFound, ErrValidation, ErrInvalidState, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
