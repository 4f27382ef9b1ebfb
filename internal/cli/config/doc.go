// Package config defines the rentdash-cli configuration.
//
// Values come from ~/.rentdash/cli.yaml, RENTDASH_* environment variables
// and global flags, merged by confloader. Keys:
//
//	backend.url         API root (http://localhost:3000/api)
//	backend.timeout     per-request timeout (30s)
//	backend.rate_limit  requests per second, 0 disables (10)
//	output.format       table, json or yaml (table)
//	output.wide         extra table columns (false)
//	log.level           debug, info, warn or error (warn)
//	log.format          text or json (text)
//	session.dir         session jar and history (~/.rentdash)
//	session.persist     keep the session cookie between runs (true)
package config
