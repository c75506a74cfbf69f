package errors

// ErrorCode identifies a failure class across the API and the
// processing pipeline. Codes are stable strings so clients can
// switch on them.
type ErrorCode string

const (
	ErrorCode_HTTP_OK            ErrorCode = "OK"
	ErrorCode_INTERNAL           ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT   ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_NOT_FOUND          ErrorCode = "NOT_FOUND"
	ErrorCode_CONFLICT           ErrorCode = "CONFLICT"
	ErrorCode_TRANSCRIPT_INVALID ErrorCode = "TRANSCRIPT_INVALID"
	ErrorCode_CHUNKING_FAILED    ErrorCode = "CHUNKING_FAILED"
	ErrorCode_EXTRACTION_FAILED  ErrorCode = "EXTRACTION_FAILED"
	ErrorCode_REFINEMENT_FAILED  ErrorCode = "REFINEMENT_FAILED"
	ErrorCode_RUN_CANCELLED      ErrorCode = "RUN_CANCELLED"
	ErrorCode_DB_QUERY_FAILED    ErrorCode = "DB_QUERY_FAILED"
	ErrorCode_STORAGE_FAILED     ErrorCode = "STORAGE_FAILED"
	ErrorCode_MODEL_UNAVAILABLE  ErrorCode = "MODEL_UNAVAILABLE"
)

func (c ErrorCode) String() string {
	return string(c)
}
