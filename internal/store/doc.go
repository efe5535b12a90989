// Package store defines the client-side contract over the remote record
// store: typed repositories for keyed record CRUD (see the repositories
// sub-packages), an authentication provider with a session-change
// subscription (see auth), and a repository manager wiring a PostgreSQL
// implementation of the whole contract (see repomanager).
//
// Components above this layer depend only on the interfaces; any backend
// offering the same primitives (keyed CRUD with per-row uniqueness
// constraints, one authentication principal per session, and an atomic
// principal-removal procedure) can stand in for the bundled one.
package store
