// Package output renders command results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: reflection-driven tables with wide columns
//   - json.go, yaml.go: machine-readable output
//   - spinner.go: activity indicator while the session is unresolved
//   - bar.go: inline meters for dashboard figures
//
// Table columns come from the `table` struct tag: `table:"NAME"` names the
// column, `table:"NAME,wide"` shows it only in wide mode and `table:"-"`
// hides the field.
package output
