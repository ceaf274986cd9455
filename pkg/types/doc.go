// Package types defines the cube entities, the Store interface, and the
// standard errors shared by the xcube packages.
package types
