// Package release runs one release preparation: it builds the stage table
// from configuration, executes it, fingerprints the produced archives and
// feeds the optional history and metrics sinks.
package release
