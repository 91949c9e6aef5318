// Package scan decodes UTF-8 text one scalar value at a time.
//
// The functions are pure stepping functions: they never allocate and carry
// no state between calls, so a caller restarts a scan by passing the rest
// returned from the previous step. Next and Measure assume well-formed input;
// callers validate first with Valid and work on the prefix it reports.
package scan
