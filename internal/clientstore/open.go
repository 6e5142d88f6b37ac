package clientstore

import (
	"fmt"

	"goldmart/internal/config"
)

func Open(cfg config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		return NewMemoryStore(), nil
	case "file", "":
		return NewFileStore(cfg.StorePath)
	case "postgres":
		if cfg.StoreDSN == "" {
			return nil, fmt.Errorf("postgres store requires GOLDMART_STORE_DSN")
		}
		return NewPostgresStore(cfg.StoreDSN, cfg.StoreNamespace)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
