// Package postgres provides PostgreSQL implementations of the store
// interfaces. All database errors are funneled through MapError so that
// callers only ever see the sentinel errors defined in the store package.
package postgres
