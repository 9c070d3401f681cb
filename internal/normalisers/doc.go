// Package normalisers provides implementations of the Normaliser
// interface for the supported document kinds. Each normaliser knows
// how to extract clean, paragraph-segmented text from one format.
//
// Normalisers are registered with the Registry at startup and
// selected by document kind.
package normalisers
