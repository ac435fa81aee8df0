// Package task manages background job queuing, processing, and lifecycle.
// It provides two independently ordered lanes (user-related and
// file-related work) so slow I/O such as password digesting, blob writes,
// and thumbnail derivation never blocks HTTP request handling. Each
// submitted task resolves to exactly one terminal outcome, delivered
// through a latched handle the caller can await any number of times.
package task
