// Package validation binds request payloads and turns validator
// failures into the 400 error body, one entry per offending field.
package validation
