// Package config loads runtime configuration for the merry CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults). The default base URL
//     comes from buildinfo.DefaultBaseURL and can be set at link time.
//  2. Environment variables, with a ./.env file as fallback: MERRY_BASE_URL,
//     MERRY_DATA_DIR, MERRY_REQUEST_TIMEOUT, MERRY_LOG_LEVEL,
//     MERRY_CROP_PRESET.
//  3. Optional JSON or YAML file selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the API
//	-t int      request timeout (seconds)
//	-d string   data directory
//	-w int      working width
//	-cw float   crop width fraction
//	-ch float   crop height fraction
//	-l string   log level
//
// # File schema
//
// The file loader uses timex.Duration for the timeout, so values can be
// either strings like "30s" or integer nanoseconds:
//
//	base_url: http://127.0.0.1:8000
//	data_dir: /home/nami/.config/merry
//	request_timeout: 30s
//	log_level: debug
//	crop:
//	  working_width: 1200
//	  width_fraction: 0.62
//	  height_fraction: 0.65
//
// Primary API
//
//   - type Config                     - connection, storage, logging and crop settings
//   - func LoadConfig() *Config       - builds Config from defaults, env, file, then flags
//   - func (*Config) LoadDefaults()   - sets sensible defaults
package config
