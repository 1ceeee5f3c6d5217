// Package summary orchestrates summarization requests.
//
// A request is validated, its length window is resolved from the length
// preference, and the result is looked up in the cache. On a miss, identical
// concurrent requests share one computation: the upstream summarizer is tried
// under an admission semaphore and a timeout, and the extractive algorithm
// produces the summary whenever the upstream is disabled or fails.
package summary
