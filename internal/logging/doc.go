// Package logging wires log/slog into bunkplan.
//
// Every CLI invocation creates one Logger, tagged with a run_id, that writes
// JSON lines to bunkplan.log in the configured log directory. The file is
// rotated by size; rotated files are kept as bunkplan.log.1, bunkplan.log.2
// and so on, optionally gzipped.
//
// Portal requests and command failures are logged. The projector never logs.
package logging
