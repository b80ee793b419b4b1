// Package config loads the settings shared by every conversion: the declared text
// encoding, tab size, URL safe characters, timezone and request limits.
//
// Sources are applied in order, later ones winning: built-in defaults, the YAML
// file at ~/.mcp-stringutils/config.yaml, a .env file in the working directory and
// the STRINGUTILS_* environment variables.
package config
