package config

// TaskUsageReset resets every tenant's monthly order counter once its reset
// watermark has passed.
const TaskUsageReset = "usage:monthly_reset"

// TaskTokenPurge removes expired SSO login tokens. Purging also happens
// opportunistically on issuance; the scheduled run keeps the table small on
// quiet days.
const TaskTokenPurge = "sso:token_purge"

// DefinedTasks lists the task types the scheduler accepts.
var DefinedTasks = map[string]struct{}{
	TaskUsageReset: {},
	TaskTokenPurge: {},
}
