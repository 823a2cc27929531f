// Package http contains the HTTP transport layer: chi handlers for the
// sales history, forecasting, and model inventory APIs backing the
// dashboard. Handlers depend on service interfaces defined here, use
// go-chi/render for JSON responses, and route all failures through the
// RFC 7807 error handler.
package http
