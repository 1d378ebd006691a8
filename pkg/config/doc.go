// Package config loads typed configuration structs from the process environment.
//
// Values are read from an optional `.env` file (github.com/joho/godotenv) and
// then parsed into structs annotated with `env` tags (github.com/caarlos0/env/v11).
// Each struct type is parsed once and served from a process-wide cache afterwards.
//
//	type ServerConfig struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":3000"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Call LoadEnv before the first Load to read dotenv files other than `./.env`.
// Tests that change the environment between cases call Reset.
package config
