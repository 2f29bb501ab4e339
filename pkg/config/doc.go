// Package config provides configuration management for gridexport.
//
// Configuration is loaded from a YAML file, completed with default values,
// overridden from the environment and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("gridexport.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention GRIDEXPORT_SECTION_FIELD,
// for example:
//
//   - GRIDEXPORT_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - GRIDEXPORT_STORAGE_PATH overrides storage.path
//   - GRIDEXPORT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Grid definitions can only be set in the file.
//
// # Reloading
//
// Watcher observes the configuration file with fsnotify and calls back after
// a debounce interval. Callers reload with ReloadConfig, which keeps the
// current configuration when the new file does not validate.
package config
