// Package normalisers provides implementations of the Normaliser interface
// for the supported document formats. Each normaliser turns the bytes of one
// file into (title, body) records.
//
// Normalisers are registered with a Registry at startup; the registry picks
// one by file extension.
package normalisers
