// Package domain contains the core domain model for the application.
//
// This package defines:
//   - Entities: Core business objects with identity (User, Joke)
//   - Domain Errors: Business rule violation errors
//   - Authorization rules that are pure functions over entities
//
// Rules for this package:
//   - No external dependencies except the standard library
//   - No infrastructure concerns (database, HTTP, etc.)
package domain
