package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrOutOfStock   = errors.New("producto sin stock")
	ErrEmptyCart    = errors.New("el carrito está vacío")
	ErrUnavailable  = errors.New("servicio externo no disponible")
)
