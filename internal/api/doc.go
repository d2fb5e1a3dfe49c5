// Package api provides the HTTP handlers for the task manager: user and
// task CRUD under the /user and /task prefixes, plus the mapping from
// store errors to HTTP status codes.
package api
