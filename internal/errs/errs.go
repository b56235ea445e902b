// Package errs defines the error shapes the portal returns to clients.
//
// Every failure, whether raised by a handler, a service, the database
// or the Superlógica API, reaches the client as an HTTPError so the
// resident page and the admin panel can rely on a single JSON shape:
//
//	{ "code": "FORBIDDEN", "message": "...", "status": 403, ... }
//
// - Field-level validation errors for admin forms.
// - "Action hints" (like redirect) that frontends can interpret.
// - Upstream messages surfaced verbatim where residents need them.
package errs
