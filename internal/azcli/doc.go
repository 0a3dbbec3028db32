// Package azcli is a thin adapter over the Azure CLI (`az`).
//
// The provisioning pipeline only needs two things from az: its version
// (for the prerequisite report) and its list of installed/registered
// extensions (for the final verification). Both are exposed as typed
// capabilities so the pipeline never scans raw CLI text itself, and the
// ExtensionLister interface lets tests substitute a fake.
//
// az emits JSON, but real-world output can carry a UTF-8 BOM or stray
// warning text, so parsing goes through tidwall/jsonc before
// encoding/json — tolerant of noise a strict parser would choke on.
package azcli
