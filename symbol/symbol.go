// Package symbol defines the fixed 7-bit alphabet that every automaton and
// scanner in this module operates over, along with the two symbols reserved
// outside of it.
package symbol

// AlphabetSize is the number of input symbols an automaton transition table
// must have room for: byte values 0..127.
const AlphabetSize = 128

// EOS is the end-of-stream sentinel value. Scanners never transition on it;
// readers return it in place of an io.EOF.
const EOS byte = 0

// Epsilon is the marker for an empty NFA transition. It is not itself a
// member of the alphabet.
const Epsilon = -1

// EndMarker is the synthetic end-of-input token id the parser sees once the
// scanner is exhausted. Its numeric value is assigned per-grammar (it is
// always equal to the token count), so this constant is only used as a
// sentinel within packages that don't carry a token count around.
const EndMarker = -2

// Reject is the transition-table value meaning "no transition defined".
const Reject = -1
