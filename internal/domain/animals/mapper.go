package animals

import "time"

const DateLayout = "2006-01-02"

// MapRecord traduce una fila del store al esquema canónico.
// No valida nada: asume que el store solo contiene registros ya validados.
//
// DateAdded sale de CreatedAt en la zona de now (los stores guardan UTC);
// si el backend no lo tiene se usa now directamente.
func MapRecord(raw *RawRecord, now time.Time) (Animal, bool) {
	if raw == nil || *raw == (RawRecord{}) {
		return Animal{}, false
	}

	added := now
	if !raw.CreatedAt.IsZero() {
		added = raw.CreatedAt.In(now.Location())
	}

	return Animal{
		ID:          raw.ID,
		Name:        raw.Nom,
		Species:     raw.Espece,
		Breed:       raw.Race,
		Age:         raw.Age,
		Description: raw.Description,
		OwnerEmail:  raw.Courriel,
		Address:     raw.Adresse,
		City:        raw.Ville,
		PostalCode:  raw.CP,
		DateAdded:   added.Format(DateLayout),
	}, true
}

func mapAll(raws []RawRecord, now time.Time) []Animal {
	out := make([]Animal, 0, len(raws))
	for i := range raws {
		if a, ok := MapRecord(&raws[i], now); ok {
			out = append(out, a)
		}
	}
	return out
}
