package store

import "github.com/blaine-t/splits/internal/config"

func configFor(driver string) config.DatabaseConfig {
	return config.DatabaseConfig{Driver: driver, Path: ":memory:", URL: "postgres://localhost/splits_test"}
}
