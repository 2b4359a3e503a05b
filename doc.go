// Package goverload resolves, per call, which of several same-named
// implementations best matches the runtime argument values.
//
// Candidates declare parameter constraints (see the constraint and
// signature packages); a dispatcher binds the call to each candidate in
// registration order, scores the bound values, and invokes the strictly
// highest-scoring candidate. Equal top scores keep the earliest
// registration. Two dispatch forms exist: FuncDispatcher for free
// functions registered in a Table, and BoundDispatcher for methods on a
// Class chain, which falls back through ancestor classes when no local
// candidate matches.
//
// Resolution is synchronous and recomputed per call; nothing is cached.
// Registries are append-only and must be fully populated before dispatch
// begins — concurrent registration is not synchronized.
package goverload
