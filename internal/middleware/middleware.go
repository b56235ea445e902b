// Package middleware holds the global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns: admin
// authentication through Clerk, resident authentication through the
// magic link claim, request logging, CORS, rate limiting, metrics and
// panic recovery.
package middleware
