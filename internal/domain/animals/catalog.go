package animals

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const DefaultSampleSize = 5

// Rand es la fuente de aleatoriedad del muestreo. *rand.Rand la cumple.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Catalog es el motor de consultas sobre un Store ya adquirido.
// Vive lo que dura una request; lo crea Service.WithCatalog.
type Catalog struct {
	store   Store
	rnd     Rand
	now     func() time.Time
	metrics Recorder
}

// ListAll mapea todos los registros respetando el orden del store.
func (c *Catalog) ListAll(ctx context.Context) ([]Animal, error) {
	raws, err := c.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: get all: %v", ErrStore, err)
	}
	return mapAll(raws, c.now()), nil
}

// Search busca query (sin distinguir mayúsculas) en name, species, breed,
// description y city. Query vacía = ListAll.
func (c *Catalog) Search(ctx context.Context, query string) ([]Animal, error) {
	all, err := c.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		c.metrics.ObserveQuery("search", len(all))
		return all, nil
	}

	out := make([]Animal, 0)
	for _, a := range all {
		if matches(a, q) {
			out = append(out, a)
		}
	}
	c.metrics.ObserveQuery("search", len(out))
	return out, nil
}

func matches(a Animal, q string) bool {
	for _, field := range []string{a.Name, a.Species, a.Breed, a.Description, a.City} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Sample devuelve min(count, total) animales distintos, elegidos uniformemente
// sin reemplazo. Con count >= total devuelve todo el listado en orden aleatorio.
func (c *Catalog) Sample(ctx context.Context, count int) ([]Animal, error) {
	all, err := c.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	k := min(count, len(all))
	if k <= 0 {
		c.metrics.ObserveQuery("sample", 0)
		return []Animal{}, nil
	}

	// Fisher-Yates parcial: las primeras k posiciones quedan sorteadas.
	for i := 0; i < k; i++ {
		j := i + c.rnd.IntN(len(all)-i)
		all[i], all[j] = all[j], all[i]
	}

	c.metrics.ObserveQuery("sample", k)
	return all[:k], nil
}

// Get devuelve ErrNotFound si el id no existe; el caller debe chequearlo.
func (c *Catalog) Get(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrNotFound
	}

	raw, err := c.store.GetOne(ctx, id)
	if err != nil {
		return Animal{}, fmt.Errorf("%w: get one: %v", ErrStore, err)
	}

	a, ok := MapRecord(raw, c.now())
	if !ok {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

// Create valida y, solo si no hay errores, inserta. Los errores de validación
// van en Validation, nunca en error.
func (c *Catalog) Create(ctx context.Context, sub Submission) (string, Validation, error) {
	v := Validate(sub)
	if !v.OK() {
		c.metrics.ObserveSubmission("rejected")
		return "", v, nil
	}

	id, err := c.store.Insert(ctx, v.Animal)
	if err != nil {
		c.metrics.ObserveSubmission("failed")
		return "", v, fmt.Errorf("%w: insert: %v", ErrStore, err)
	}

	c.metrics.ObserveSubmission("accepted")
	return id, v, nil
}
