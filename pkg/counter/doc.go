// Package counter implements the request-counting API handler.
//
// Each call to [Handler.Handle] increments a [Store] exactly once and answers
// 200 with the new value. Two stores are provided:
//
//   - [Memory]: an atomic integer owned by the store instance
//   - [Redis]: a Redis key incremented with INCR, shared across processes
//
// Both are safe for unbounded concurrent use; no locks are held around the
// handler itself.
//
// # Usage
//
//	store := counter.NewMemory()
//	api := counter.NewHandler(store)
//	_ = reg.Register("api.example.com", api)
package counter
