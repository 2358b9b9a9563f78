// Package extract unpacks archives that the sort pass filed under
// root/archives.
//
// The format is chosen from the file name alone: zip, tar, rar and 7z by their
// extension, and gz, bz2, xz or zst as a compressed tar when the stem ends in
// ".tar" (or the name is .tgz) and as a single compressed stream otherwise.
// Each archive unpacks into a sibling directory named after its stem and is
// deleted only after every entry has been written. Archives that cannot be
// read are kept and reported with services.ErrArchiveFormat.
package extract
