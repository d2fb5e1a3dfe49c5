// Package store defines the persistence abstractions of the task manager:
// the UserStore and TaskStore interfaces, the sentinel errors shared by all
// implementations, and helpers for working with database transactions.
package store
