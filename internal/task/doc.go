// Package task runs background work such as email delivery off the request
// path. Services enqueue tasks on a bounded TaskQueue; a WorkerPool drains it
// with a fixed number of goroutines.
package task
