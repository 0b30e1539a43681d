package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los adaptadores los envuelven con fmt.Errorf("%w: ...") y los handlers los
// comparan con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrOverReturn        = errors.New("la devolución supera la cantidad despachada")
	ErrTransient         = errors.New("falla transitoria de persistencia")
)
