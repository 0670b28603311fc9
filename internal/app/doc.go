// Package app is the application layer: the only place that composes
// repositories, the token manager, and the credential hasher into use cases.
// Handlers call into this package and never touch storage directly.
package app
