// Package store defines the persistence contracts for users, folders and
// lists, the errors every implementation reports, and the transaction helper
// services use to group writes.
package store
