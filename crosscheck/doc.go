/*
Package crosscheck tests automata against each other.

Every stage of the automata pipeline has to agree on which pattern matches a
given input: the NFA (preferring literal patterns), the DFA produced by subset
construction, and the minimized DFA. Match runs a text through all three and
reports inconsistencies as errors.

Oracle is an independent second opinion. It renders patterns as regular
expressions and compiles them with lexmachine
(https://github.com/timtadh/lexmachine), then checks the NFA's verdicts
against lexmachine's.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package crosscheck

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'legs.crosscheck'.
func tracer() tracing.Trace {
	return tracing.Select("legs.crosscheck")
}
