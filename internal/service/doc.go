// Package service contains the use cases of the application. Services
// coordinate domain objects, the stores defined in internal/store and the
// side channels of a change: account emails go to the task queue and list
// changes go to the event emitter.
//
// Services:
//
//   - UserService: registration, email verification, login and password reset.
//   - FolderService and ListService: ownership-checked folder and list CRUD,
//     including saving raw editor text and JSON export/import.
//   - EditorService: stateless card generation over raw editor text.
//
// Errors are sentinels from this package, internal/domain, internal/store and
// internal/service/auth, wrapped with context. The API layer maps them to
// HTTP status codes with errors.Is.
package service
