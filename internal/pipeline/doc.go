// Package pipeline fans independent jobs out to a bounded pool of workers and
// hands each result to a single collector goroutine.
//
// Results arrive in completion order; callers that need a stable order sort
// after ForEach returns.
package pipeline
