// Package stages runs the release as an ordered table of named stages.
//
// Each StageDef declares its own exit code, so adding or removing a stage
// never renumbers the others. RunStages executes the table top to bottom and
// stops at the first failing stage, surfacing that stage's code. Completed
// stages are never retried or rolled back.
//
// A stage may be marked TolerateFailure; its error is logged and the run
// continues. Only the initial tree purge uses this.
package stages
