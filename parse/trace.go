package parse

// TraceListener receives one human-readable line per LL(1) table expansion
// and per SLR(1) shift or reduce; token matches and error recovery are not
// reported. Grounded on the teacher's
// parse/lr.go RegisterTraceListener(listener func(s string)) signature; a
// debugging aid, never required for a successful parse.
type TraceListener func(s string)
