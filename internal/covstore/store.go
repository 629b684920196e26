// Package covstore provides the keyed store of symmetric resolution
// matrices consumed by the smearing engine. Matrices are kept in a
// sqlite file, one row per canonical bin name, with elements serialized
// as row-major little-endian float64.
package covstore

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS covmat (
		name              TEXT PRIMARY KEY,
		dim               INTEGER NOT NULL,
		elements          BLOB NOT NULL,
		timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

// Store is a keyed store of symmetric matrices backed by a sqlite file.
type Store struct {
	db *sql.DB
}

// Open opens an existing parametrisation file. A missing file is an
// error: the engine must never start with an empty resolution model.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("parametrisation file: %w", err)
	}
	return open(path)
}

// Create opens path for writing, creating the file and schema if needed.
func Create(path string) (*Store, error) {
	return open(path)
}

func open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing covmat schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Matrix fetches the matrix stored under name. ok == false reports an
// absent key; that is a normal condition, not an error.
func (s *Store) Matrix(name string) (*mat.SymDense, bool, error) {
	var dim int
	var blob []byte
	err := s.db.QueryRow(`SELECT dim, elements FROM covmat WHERE name = ?`, name).Scan(&dim, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying %q: %w", name, err)
	}
	if dim <= 0 || len(blob) != dim*dim*8 {
		return nil, false, fmt.Errorf("%q: dim %d does not match %d element bytes", name, dim, len(blob))
	}
	data := make([]float64, dim*dim)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	m := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			m.SetSym(i, j, data[i*dim+j])
		}
	}
	return m, true, nil
}

// Put stores m under name, replacing any previous entry.
func (s *Store) Put(name string, m *mat.SymDense) error {
	dim := m.SymmetricDim()
	blob := make([]byte, dim*dim*8)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			binary.LittleEndian.PutUint64(blob[(i*dim+j)*8:], math.Float64bits(m.At(i, j)))
		}
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO covmat (name, dim, elements) VALUES (?, ?, ?)`, name, dim, blob)
	if err != nil {
		return fmt.Errorf("storing %q: %w", name, err)
	}
	return nil
}

// Names lists all stored keys in lexical order.
func (s *Store) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM covmat ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
