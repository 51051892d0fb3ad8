// Package config loads typed configuration structs from environment
// variables.
//
// A .env file in the working directory is loaded once, if present, before the
// first struct is parsed; after that the environment is the single source of
// truth. Structs declare their variables with `env` tags:
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
