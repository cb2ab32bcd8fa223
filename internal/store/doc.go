// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// It also owns the shared error vocabulary (ErrNotFound, ErrDuplicate, ...)
// and the RunInTransaction helper used by the service layer.
package store
