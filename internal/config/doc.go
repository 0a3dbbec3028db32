// Package config loads the optional .devsetup.yaml override file.
//
// The provisioner works out of the box with built-in defaults (venv
// directory name, extension name, pinned dependency versions). A
// .devsetup.yaml at the repository root can override any of them, which
// is mainly useful when testing dependency pin bumps before changing
// the defaults for everyone.
package config
