// Package workspace manages the transient extraction workspace of a release.
//
// The distribution archive produced in the source root is unpacked under the
// staging root (typically $HOME/tmp) into a directory named after the
// distribution. That tree is reconfigured standalone, used to regenerate the
// API documentation, and removed once the documentation archive is safely in
// the source root.
//
// Removal happens only on the success path. A failure in any earlier stage
// leaves the extracted tree on disk for inspection; the next run warns about
// it and extracts over it.
package workspace
