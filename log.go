package modelity

import "github.com/rs/zerolog"

// logger is disabled by default; SetLogger enables debug tracing of registry
// resolution and schema builds.
var logger = zerolog.Nop()

// SetLogger installs a logger for internal debug tracing. Pass
// zerolog.Nop() to disable again.
func SetLogger(l zerolog.Logger) { logger = l }
