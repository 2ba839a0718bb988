// Package domain contains the business entities of flashlists: users, the
// folders they organize their lists in, and the flashcard lists themselves.
// It is independent of storage and transport; entities validate themselves and
// report failures with the sentinel errors and ValidationError defined here.
package domain
