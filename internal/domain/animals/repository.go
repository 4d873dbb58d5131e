package animals

import "context"

// Store es el record store externo. GetOne devuelve (nil, nil) si el id no existe.
type Store interface {
	GetAll(ctx context.Context) ([]RawRecord, error)
	GetOne(ctx context.Context, id string) (*RawRecord, error)
	Insert(ctx context.Context, a NewAnimal) (string, error)
}

// Handle es un Store adquirido para una request lógica; Close lo libera.
type Handle interface {
	Store
	Close() error
}

// Provider entrega un Handle por request.
type Provider interface {
	Acquire(ctx context.Context) (Handle, error)
}
