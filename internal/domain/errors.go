package domain

import "errors"

// Errores de dominio (sin dependencias externas). Cada uno corresponde a una categoría
// estable que la capa HTTP traduce a código de estado y código de error.
var (
	ErrValidation         = errors.New("entrada inválida")
	ErrReferenceMismatch  = errors.New("la referencia no pertenece a la empresa")
	ErrUnauthenticated    = errors.New("no autenticado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidState       = errors.New("operación no permitida en el estado actual")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)

// FieldErrors errores de validación por campo. errors.Is(err, ErrValidation) es verdadero.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	return ErrValidation.Error()
}

func (f FieldErrors) Unwrap() error { return ErrValidation }
