// Package pagination corta listados en páginas de tamaño fijo.
package pagination

// Paginate devuelve la página pedida (1-based) y el total de páginas.
// Una página fuera de rango devuelve un slice vacío, no error: clamping o 404
// lo decide quien llama.
func Paginate[T any](items []T, page, pageSize int) ([]T, int) {
	if pageSize <= 0 {
		return []T{}, 0
	}

	totalPages := (len(items) + pageSize - 1) / pageSize

	if page < 1 || page > totalPages {
		return []T{}, totalPages
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	return items[start:end], totalPages
}
