// Package file stores notesmith's configuration as a TOML file, by default
// ~/.notesmith/config.toml, and can watch it for edits made outside the
// process.
package file
