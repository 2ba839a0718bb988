// Package config loads flashlists settings with viper from defaults, an
// optional config.yaml and FLASHLISTS_* environment variables, then validates
// them with go-playground/validator before any component starts.
package config
