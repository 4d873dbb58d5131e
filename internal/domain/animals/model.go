package animals

import "time"

// Animal es la vista canónica de un registro, la que ven handlers y clientes.
type Animal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Age         int    `json:"age"`
	Description string `json:"description"`
	OwnerEmail  string `json:"owner_email"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`

	// DateAdded en formato YYYY-MM-DD.
	DateAdded string `json:"date_added"`
}

// RawRecord es la fila tal como la guarda el store, con los nombres de columna
// heredados del esquema original (en francés).
type RawRecord struct {
	ID          string
	Nom         string
	Espece      string
	Race        string
	Age         int
	Description string
	Courriel    string
	Adresse     string
	Ville       string
	CP          string

	// CreatedAt puede venir en cero si el backend no lo guarda.
	CreatedAt time.Time
}

// NewAnimal es una submission ya validada y normalizada, lista para Insert.
type NewAnimal struct {
	Name        string
	Species     string
	Breed       string
	Age         int
	Description string
	OwnerEmail  string
	Address     string
	City        string
	PostalCode  string
}
