// Package confloader loads layered configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Defaults supplied by the caller
//  2. A YAML file
//  3. Environment variables (RENTDASH_SECTION_KEY)
//
// Command-line flags are applied on top by the caller through LoadMap.
// Watcher reports edits to the config file so a long-lived shell can
// reload without restarting.
package confloader
