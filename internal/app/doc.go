// Package app wires the application together: configuration, logging,
// dataset loading, the model store, services, the chi router, and the
// HTTP server lifecycle. The sales and factor files are read once at
// startup and served from memory for the life of the process.
package app
