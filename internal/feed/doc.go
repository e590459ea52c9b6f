// Package feed turns a text file into a lazy, infinite, restartable
// sequence of lines for the broadcast loop.
//
// The source owns the file read cursor. It is not safe for concurrent
// use; the broadcast loop is its sole consumer.
package feed
