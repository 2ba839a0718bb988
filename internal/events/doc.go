// Package events decouples services that change a user's folders and lists
// from the components that react to it. Services emit a ListsUpdatedEvent;
// handlers such as the websocket hub push it to connected clients.
package events
