package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption-catalog/internal/domain/animals"

	"github.com/google/uuid"
)

type AnimalsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db, now: time.Now}
}

func (r *AnimalsRepo) Acquire(ctx context.Context) (animals.Handle, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &animalsConn{conn: conn, now: r.now}, nil
}

type animalsConn struct {
	conn *sql.Conn
	now  func() time.Time
}

func (c *animalsConn) Close() error { return c.conn.Close() }

const selectAnimals = `
	SELECT id, nom, espece, race, age, description, courriel, adresse, ville, cp, created_at
	FROM animaux
`

func (c *animalsConn) GetAll(ctx context.Context) ([]animals.RawRecord, error) {
	// rowid sigue el orden de inserción.
	rows, err := c.conn.QueryContext(ctx, selectAnimals+` ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.RawRecord, 0)
	for rows.Next() {
		rec, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (c *animalsConn) GetOne(ctx context.Context, id string) (*animals.RawRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	rec, err := scanAnimal(c.conn.QueryRowContext(ctx, selectAnimals+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (c *animalsConn) Insert(ctx context.Context, a animals.NewAnimal) (string, error) {
	id := uuid.NewString()
	_, err := c.conn.ExecContext(ctx, `
		INSERT INTO animaux (id, nom, espece, race, age, description, courriel, adresse, ville, cp, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id, a.Name, a.Species, a.Breed, a.Age,
		a.Description, a.OwnerEmail, a.Address, a.City, a.PostalCode,
		c.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s scanner) (animals.RawRecord, error) {
	var (
		rec     animals.RawRecord
		created string
	)
	if err := s.Scan(
		&rec.ID, &rec.Nom, &rec.Espece, &rec.Race, &rec.Age,
		&rec.Description, &rec.Courriel, &rec.Adresse, &rec.Ville, &rec.CP,
		&created,
	); err != nil {
		return animals.RawRecord{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return animals.RawRecord{}, fmt.Errorf("created_at %q: %w", created, err)
	}
	rec.CreatedAt = t
	return rec, nil
}
