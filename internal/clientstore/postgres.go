package clientstore

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore shares one table between several storefront profiles, each
// under its own namespace.
type PostgresStore struct {
	db        *sql.DB
	namespace string
}

func NewPostgresStore(dsn, namespace string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db, namespace: namespace}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS client_store (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (namespace, key)
	);`)
	return err
}

func (s *PostgresStore) Get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM client_store WHERE namespace=$1 AND key=$2`, s.namespace, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *PostgresStore) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO client_store (namespace,key,value,updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (namespace,key) DO UPDATE SET value=$3,updated_at=$4`,
		s.namespace, key, value, time.Now().UTC())
	return err
}

func (s *PostgresStore) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM client_store WHERE namespace=$1 AND key=$2`, s.namespace, key)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
