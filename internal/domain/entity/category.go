package entity

// Category representa una categoría del catálogo.
type Category struct {
	ID          string
	Slug        string
	Name        string
	Description string
	Image       string // URL absoluta; vacío si no tiene
	Order       int
}

// Uncategorized es la categoría asignada a productos sin relación de categoría en el CMS.
func Uncategorized() Category {
	return Category{ID: "0", Slug: "uncategorized", Name: "Uncategorized"}
}
