// Package redis guarda cada animal como hash y el orden de alta en una lista.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"pet-adoption-catalog/internal/domain/animals"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

type AnimalsRepo struct {
	client *backend.Client
	prefix string
	now    func() time.Time
}

type Option func(*AnimalsRepo)

// WithPrefix separa keyspaces (p.ej. entre tests o entornos).
func WithPrefix(prefix string) Option {
	return func(r *AnimalsRepo) {
		r.prefix = prefix
	}
}

func NewFromClient(client *backend.Client, opts ...Option) *AnimalsRepo {
	r := &AnimalsRepo{
		client: client,
		prefix: "catalog:",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire comparte el pool del cliente; Close no hace nada.
func (r *AnimalsRepo) Acquire(ctx context.Context) (animals.Handle, error) {
	return handle{r}, nil
}

type handle struct {
	*AnimalsRepo
}

func (handle) Close() error { return nil }

func (r *AnimalsRepo) listKey() string {
	return r.prefix + "animals"
}

func (r *AnimalsRepo) animalKey(id string) string {
	return r.prefix + "animal:" + id
}

func (r *AnimalsRepo) GetAll(ctx context.Context) ([]animals.RawRecord, error) {
	ids, err := r.client.LRange(ctx, r.listKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	out := make([]animals.RawRecord, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*backend.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, r.animalKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}

	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// id en la lista sin hash: se ignora
			continue
		}
		rec, err := fromHash(ids[i], fields)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *AnimalsRepo) GetOne(ctx context.Context, id string) (*animals.RawRecord, error) {
	if id == "" {
		return nil, nil
	}
	fields, err := r.client.HGetAll(ctx, r.animalKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	rec, err := fromHash(id, fields)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *AnimalsRepo) Insert(ctx context.Context, a animals.NewAnimal) (string, error) {
	id := uuid.NewString()

	_, err := r.client.TxPipelined(ctx, func(p backend.Pipeliner) error {
		p.HSet(ctx, r.animalKey(id), map[string]any{
			"nom":         a.Name,
			"espece":      a.Species,
			"race":        a.Breed,
			"age":         strconv.Itoa(a.Age),
			"description": a.Description,
			"courriel":    a.OwnerEmail,
			"adresse":     a.Address,
			"ville":       a.City,
			"cp":          a.PostalCode,
			"created_at":  r.now().UTC().Format(time.RFC3339Nano),
		})
		p.RPush(ctx, r.listKey(), id)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("redis insert: %w", err)
	}
	return id, nil
}

func fromHash(id string, f map[string]string) (animals.RawRecord, error) {
	age, err := strconv.Atoi(f["age"])
	if err != nil {
		return animals.RawRecord{}, fmt.Errorf("animal %s: bad age %q: %w", id, f["age"], err)
	}

	rec := animals.RawRecord{
		ID:          id,
		Nom:         f["nom"],
		Espece:      f["espece"],
		Race:        f["race"],
		Age:         age,
		Description: f["description"],
		Courriel:    f["courriel"],
		Adresse:     f["adresse"],
		Ville:       f["ville"],
		CP:          f["cp"],
	}
	if v := f["created_at"]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return animals.RawRecord{}, fmt.Errorf("animal %s: bad created_at %q: %w", id, v, err)
		}
		rec.CreatedAt = t
	}
	return rec, nil
}
