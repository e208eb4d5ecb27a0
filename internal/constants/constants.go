package constants

// Session and context keys
const (
	SessionCookieName    = "workstream_session"
	ContextKeyAccountID  = "account_id"
	ContextKeyAccount    = "account"
	SessionMaxAgeSeconds = 86400 * 7
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Limits
const (
	MaxAssignmentLogEntries = 100
	MaxAIGeneratedTasks     = 10
	MaxImportRows           = 5000
)
