// Command stagehand collects the results of finished remote jobs: it fetches
// declared and incidental output files from the worker, records each run in a
// local journal, and requests remote cleanup per the configured policy.
package main
