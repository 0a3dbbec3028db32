// Package python handles Python interpreter discovery and virtual
// environment lifecycle for the provisioning pipeline.
//
// It covers three concerns:
//   - Resolver: deterministic discovery of a Python 3 interpreter on
//     PATH, with an authoritative --python override.
//   - Venv: platform-aware path resolution inside a virtual environment
//     and idempotent environment creation.
//   - Cleaner: idempotent removal of prior state (venv directories,
//     build artifacts, bytecode caches).
//
// All subprocess calls go through shell.Runner so the logic is testable
// without real interpreters installed.
package python
