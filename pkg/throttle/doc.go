// Package throttle runs calls under a concurrency cap and any number of
// sliding-window rate limits.
//
// A [Scheduler] wraps one function. Callers [Scheduler.Submit] arguments
// and block until their own call completes; calls start in submission
// order as soon as every limit allows. With
//
//	Config{Concurrency: 5, Windows: []Window{{Duration: 10 * time.Second, MaxRequests: 19}}}
//
// at most five calls run at once and no 10-second span contains more than
// nineteen starts. [Default] returns exactly this profile.
//
// The scheduling goroutine sleeps until something can change: a new
// submission, a completed call, or the moment the oldest start leaves a
// full window. It never polls.
//
// An error or panic in one call is returned only to that call's caller. A
// call whose context ends while it is still queued is skipped and never
// started.
package throttle
