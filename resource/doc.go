// Package resource provides budget accounting for the caching layer.
//
// A Controller bounds the total memory reserved by in-process caches and
// optionally throttles read throughput on pooled file handles. Reservations
// are non-blocking; callers decide how to react when the budget is denied
// (the content cache shrinks its request, the handle pool skips throttling).
//
// A nil *Controller is valid and enforces nothing, so components can take a
// controller unconditionally.
package resource
