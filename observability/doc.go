// Package observability instruments bus dispatch. Each instrument is a
// componentbus.DispatchMiddleware installed with componentbus.WithDispatchMiddleware.
package observability
