package errors

// Error code constants. Errors carry code + message; structured context goes
// into Params so logs stay grep-able.

// Webhook error codes.
const (
	CodeSignatureInvalid = "SIGNATURE_INVALID"
	CodeEventMalformed   = "EVENT_MALFORMED"
	CodeEventTooLarge    = "EVENT_TOO_LARGE"
)

// Collaborator error codes.
const (
	CodeResolutionFailed = "DOCUMENT_RESOLUTION_FAILED"
	CodeReportingFailed  = "RESULT_REPORTING_FAILED"
)

// Typed orchestrator callback errors. The orchestrator responds to the
// result callback with one of these; they are logged, never retried.
const (
	CodePermissionError = "PERMISSION_ERROR"
	CodeTaskError       = "TASK_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
)

// Pipeline error codes.
const (
	CodeEvaluationFailed = "EVALUATION_FAILED"
	CodeCheckAbandoned   = "CHECK_ABANDONED"
)
