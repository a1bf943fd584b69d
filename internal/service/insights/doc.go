// Package insights implements the analytics business layer: it fetches
// aggregate snapshots through repository interfaces and turns them into
// campaign scorecards, deliverability risk estimates, and coaching scores.
//
// The service never caches; every call scores the freshest snapshot the
// repository returns. Snapshot caching is the collector's job.
package insights
