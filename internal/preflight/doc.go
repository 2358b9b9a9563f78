// Package preflight provides readiness checks for the filesystem paths and
// journal that a sort run depends on.
//
// The workflow runner calls CheckDirectoryAccess on the sort root before any
// pass starts so an unwritable tree fails fast instead of once per file. The
// CLI "dirsort check" command runs the full set via RunAll.
package preflight
