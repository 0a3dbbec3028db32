// Package shell runs external tools as blocking subprocesses.
//
// Every external collaborator of the provisioning pipeline (the Python
// interpreter, pip, azdev, az, git) is invoked through the Runner
// interface defined here. The pipeline only observes argv in, exit
// status and captured text out — it never parses tool internals.
//
// Runner exists as an interface so stage logic can be tested against
// recording fakes without spawning real processes. ExecRunner is the
// os/exec-backed implementation used by the CLI.
package shell
