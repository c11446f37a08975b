// Package server implements the HTTP surface of the bradhook webhook receiver.
//
// This package provides:
//   - GET /hooks: the registered project names, in configuration order
//   - POST /hook/{name}/{env}: authorize the caller by address, then dispatch a deployment
//   - GET /health: liveness and project count
//   - Structured logging of all HTTP requests
//
// The server integrates with other packages:
//   - internal/access: trusted provider ranges and client address extraction
//   - internal/project: the immutable project registry
//   - internal/deployment: validation and execution of the deployment executable
//
// A trigger answers 403 for untrusted callers, 404 for an unknown project or
// environment, 200 when the executable exits 0 and 500 otherwise. The request
// is held open until the executable exits.
package server
