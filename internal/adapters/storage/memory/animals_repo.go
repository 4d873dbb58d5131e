package memory

import (
	"context"
	"sync"
	"time"

	"pet-adoption-catalog/internal/domain/animals"

	"github.com/google/uuid"
)

// AnimalRepo guarda los registros en memoria, en orden de inserción.
// Sirve de store por defecto en dev y tests.
type AnimalRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]animals.RawRecord
	now   func() time.Time
}

func NewAnimalRepo() *AnimalRepo {
	return &AnimalRepo{
		byID: make(map[string]animals.RawRecord),
		now:  time.Now,
	}
}

// Acquire no abre nada: el repo es compartido y Close es no-op.
func (r *AnimalRepo) Acquire(ctx context.Context) (animals.Handle, error) {
	return handle{r}, nil
}

type handle struct {
	*AnimalRepo
}

func (handle) Close() error { return nil }

func (r *AnimalRepo) GetAll(ctx context.Context) ([]animals.RawRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.RawRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *AnimalRepo) GetOne(ctx context.Context, id string) (*animals.RawRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *AnimalRepo) Insert(ctx context.Context, a animals.NewAnimal) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.byID[id] = animals.RawRecord{
		ID:          id,
		Nom:         a.Name,
		Espece:      a.Species,
		Race:        a.Breed,
		Age:         a.Age,
		Description: a.Description,
		Courriel:    a.OwnerEmail,
		Adresse:     a.Address,
		Ville:       a.City,
		CP:          a.PostalCode,
		CreatedAt:   r.now().UTC(),
	}
	r.order = append(r.order, id)
	return id, nil
}
