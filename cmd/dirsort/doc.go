// Command dirsort sorts the files under a directory into category folders,
// removes the directories the sort leaves empty and unpacks the archives it
// filed.
//
// Usage:
//
//	dirsort [flags] <root>
//	dirsort history [--limit N] [--run ID]
//	dirsort config init|show|path
package main
