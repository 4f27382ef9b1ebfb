// Package shutdown ties the CLI to process signals.
//
// WithSignals returns a context that is cancelled on SIGINT or SIGTERM, so
// an interrupted command abandons its in-flight request. Handler runs
// cleanup hooks, such as flushing the session jar, once on the way out.
package shutdown
