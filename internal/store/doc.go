// Package store defines the persistence contracts for users and file
// metadata, along with the sentinel errors implementations must return.
// Backend implementations live under internal/platform.
package store
