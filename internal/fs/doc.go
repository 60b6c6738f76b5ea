// Package fs abstracts the file system behind the handle pool so tests can
// inject failures without touching the real disk.
package fs
