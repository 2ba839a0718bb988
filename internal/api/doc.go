// Package api handles incoming HTTP requests: routing targets, request
// validation and response formatting. It adapts HTTP to the application
// services and never talks to the stores directly.
package api
