// Package api implements the HTTP surface of the service. Handlers are
// thin plumbing: they parse and validate requests, authenticate through
// the session store, submit tasks to the appropriate lane, and translate
// task outcomes into status codes and JSON bodies.
package api
