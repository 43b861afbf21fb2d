// Package fastx orchestrates divisor extraction over SOP logic networks.
//
// Divisor extraction finds sub-expressions shared across multiple node
// covers and factors them into new shared nodes, reducing the total
// literal count of the network. The extraction heuristic itself is
// pluggable - any [Engine] implementation works, including one that
// always declines - and this package owns everything around it:
//
//  1. Precondition checking ([Check]): the engine's cube algebra assumes
//     duplicate-free fanin lists and non-inverted leading fanins.
//  2. Marshalling ([Build]): the sparse node-indexed network is flattened
//     into the dense, index-stable [Context] arrays the engine consumes,
//     with slots pre-reserved for nodes the engine may create.
//  3. Graph surgery (apply, via [Run]): the engine's output is committed
//     back onto the live network - existing nodes rewired, new nodes
//     instantiated - while every identifier referenced by untouched parts
//     of the network is preserved.
//
// The whole sequence is driven by [Run]:
//
//	changed, err := fastx.Run(net, fastx.NewGreedyEngine(), fastx.Options{})
//
// Run is strictly fail-fast: every decline (precondition violation,
// cover-form failure, engine contract violation, no improvement found)
// leaves the network untouched. Once reconstruction begins there is no
// rollback; a failed post-reconstruction integrity check is logged as a
// warning and the mutated network is returned as-is.
//
// Run is synchronous and non-reentrant. The caller owns the network
// exclusively for the duration of the call; the Context is request-scoped
// and released before Run returns.
package fastx
