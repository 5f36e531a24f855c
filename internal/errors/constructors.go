package errors

// Convenience functions for common error patterns

// Invocation errors

func UsageError(message string) *ReleaseError {
	return New(CategoryUsage, SeverityFatal, message).WithStage("", ExitUsage)
}

func ConfigInvalid(field, reason string) *ReleaseError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration").
		WithStage("", ExitUsage).
		WithContext("field", field).
		WithContext("reason", reason)
}

func ConfigLoadFailed(path string, cause error) *ReleaseError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration could not be loaded").
		WithStage("", ExitUsage).
		WithContext("path", path)
}

// Version gate errors

func VersionMismatch(version, record string) *ReleaseError {
	return New(CategoryValidation, SeverityFatal, "version not declared in "+record).
		WithContext("version", version).
		WithContext("record", record)
}

func VersionRecordUnreadable(record string, cause error) *ReleaseError {
	return Wrap(cause, CategoryValidation, SeverityFatal, "version record unreadable").
		WithContext("record", record)
}

// Pipeline stage errors. The stage executor stamps the stage name and code.

func StageFailed(category ErrorCategory, message string, cause error) *ReleaseError {
	return Wrap(cause, category, SeverityFatal, message)
}

// Internal errors

func InternalError(message string, cause error) *ReleaseError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
