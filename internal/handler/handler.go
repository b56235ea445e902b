// Package handler is the HTTP layer of the portal.
//
// Handlers bind and validate the request through the validation
// package, read the magic link claim or admin session the middleware
// stored, and hand the work to the service layer.
package handler
