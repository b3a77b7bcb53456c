// Package fixtures holds reference machine descriptions used by tests and demos.
package fixtures

import _ "embed"

// Compare48 decides w#w over {0,1}. It has 48 states and compares the two
// halves in 3-bit chunks, so it stays partial on every mismatch.
//
//go:embed compare48.tm
var Compare48 string

// TinyAccept accepts any input that starts with 0 and rejects everything else.
const TinyAccept = `states 3
start start
alphabet 1 0
accept +
reject -
start 0 accept 0 R
`

// Unbounded moves right forever on a blank tape.
const Unbounded = `states 3
start loop
alphabet 1 1
yes +
no -
loop _ loop 1 R
loop 1 loop 1 R
`
