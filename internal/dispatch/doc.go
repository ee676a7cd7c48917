// Package dispatch is the adapter core: the operation registry, the
// dispatcher that validates arguments and runs handlers, the translator that
// classifies every outcome into a closed result taxonomy, and the bounder
// that keeps log-bearing payloads within item and byte caps.
//
// The flow for one invocation is fixed: resolve the descriptor, validate and
// coerce arguments against its specs (failures never reach the handler), run
// the handler, translate the outcome, and annotate deprecation notices. The
// only state shared between invocations lives behind the client holder, never
// in this package.
package dispatch
