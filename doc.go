// Package graphor is a workflow graph engine. Workflows are directed graphs
// of named steps joined by conditional edges; a router inspects the evolving
// state after each step and selects the successors to run next. The
// orchestrator manages concurrent instances of registered workflows, keeps a
// bounded history of finished runs and computes aggregate statistics.
//
// Steps mutate a typed state container owned by exactly one instance, so
// fan-out edges run their successors sequentially against the same state. A
// per-instance iteration ceiling bounds cyclic refinement loops.
package graphor
