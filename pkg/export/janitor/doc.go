// Package janitor removes transient export files that were left behind.
//
// The exporter deletes its temporary file once the response is sent. A
// process that crashes mid-export cannot, so the Sweeper periodically deletes
// files matching export.TempFilePattern that are older than a maximum age.
// The Scheduler runs the Sweeper on a cron schedule.
package janitor
