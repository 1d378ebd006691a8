package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
	dotenv bool
}

var store = &cache{values: make(map[reflect.Type]any)}

// LoadEnv reads the given dotenv files into the process environment.
// Variables already present in the environment are never overwritten.
// Subsequent Load calls skip the implicit `./.env` lookup.
func LoadEnv(files ...string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
	}
	store.dotenv = true
	return nil
}

// MustLoadEnv is like LoadEnv but panics on error.
func MustLoadEnv(files ...string) {
	if err := LoadEnv(files...); err != nil {
		panic(err)
	}
}

// Load populates v from the environment. The first successful parse of a
// given type is cached; later calls copy the cached value into v.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if !store.dotenv {
		// ./.env is optional
		_ = godotenv.Load()
		store.dotenv = true
	}

	key := reflect.TypeFor[T]()
	if cached, ok := store.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	store.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Use it for settings the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reset drops every cached struct so the next Load re-reads the environment.
func Reset() {
	store.mu.Lock()
	defer store.mu.Unlock()
	clear(store.values)
	store.dotenv = false
}
