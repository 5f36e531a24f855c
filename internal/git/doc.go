// Package git reads release provenance from the source checkout: the HEAD
// commit and whether the revision tag for a version already exists. A source
// tree that is not a git repository is not an error.
package git
