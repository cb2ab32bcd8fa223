// Package domain contains the core business entities, value objects, and
// domain logic of the application. It represents the heart of the system,
// independent of any specific infrastructure or delivery mechanism.
//
// The only entity is Task. Its invariants (non-empty title of at most 100
// characters) are checked here; title uniqueness needs storage and is enforced
// by the service layer.
package domain
