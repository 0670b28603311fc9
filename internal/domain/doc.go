// Package domain contains the core types and repository interfaces of the
// videotube identity backend. It has no dependencies on transport, storage,
// or token-signing details; those live in their own packages and depend on
// this one.
package domain
