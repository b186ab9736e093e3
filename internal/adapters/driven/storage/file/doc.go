// Package file provides filesystem implementations of driven port interfaces.
//
// The Committer writes a file by streaming into a sibling temporary file,
// syncing it to disk, and renaming it over the target. Readers of the target
// observe either the previous contents or the complete new contents, never a
// partially written file.
//
// Temporary files are named {stem}.{uuid}.tmp{ext} and live in the target's
// directory so the final rename never crosses a filesystem boundary.
package file
