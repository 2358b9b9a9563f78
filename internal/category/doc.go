// Package category maps file extensions onto the fixed set of sorting buckets.
//
// Classification is total: every path resolves to exactly one category and
// anything unrecognized lands in "other". Extensions compare case-insensitively.
// The default table mirrors the buckets users expect from a Downloads folder
// cleanup; configuration may append extensions to the named buckets but never
// adds or removes buckets.
package category
