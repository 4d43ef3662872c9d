// pkg/datarchive/doc.go

// Package datarchive reads and writes DAT containers: a single file holding
// named, optionally deflate-compressed entries followed by a table that maps
// each name to its byte range.
//
// Layout (integers are little-endian):
//
//	header   signature B1 44 41 54, version 0x01, uint64 table offset
//	payloads one contiguous region per entry
//	table    one record per entry, from the table offset to end of file
//
// A Writer stages (source path, TableEntry) pairs and either writes a fresh
// container or appends to an existing one. Appending overwrites only the old
// table: new payloads start where it began, and the rewritten table lists the
// old records (in their original write order) followed by the new ones.
// Queued entries whose name already exists in the container are dropped.
//
// A Reader loads the table once at open time and extracts entries on demand,
// verifying the stored CRC-32 unless told otherwise. The CRC always covers the
// payload bytes as stored on disk, for both compression methods.
//
// Neither type is safe for concurrent use, and nothing prevents two processes
// from appending to the same container at once; callers coordinate that.
package datarchive
