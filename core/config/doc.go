// Package config loads typed configuration from the environment.
//
// A .env file in the working directory is loaded once on first use, and
// variables already set in the process environment win. Each configuration
// type is parsed once and cached:
//
//	var cfg eddiauth.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
package config
