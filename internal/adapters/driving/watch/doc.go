// Package watch reindexes the book dataset when the file changes on disk.
package watch
