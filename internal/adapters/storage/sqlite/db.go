// Package sqlite es el backend de archivo local (el formato del despliegue original).
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS animaux (
	id          TEXT PRIMARY KEY,
	nom         TEXT NOT NULL,
	espece      TEXT NOT NULL,
	race        TEXT NOT NULL,
	age         INTEGER NOT NULL,
	description TEXT NOT NULL,
	courriel    TEXT NOT NULL,
	adresse     TEXT NOT NULL,
	ville       TEXT NOT NULL,
	cp          TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
`

// Open abre (o crea) el archivo y asegura la tabla.
// SQLite serializa escrituras: una sola conexión evita SQLITE_BUSY.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
