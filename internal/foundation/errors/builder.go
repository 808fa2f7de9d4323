package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category   ErrorCategory
	severity   ErrorSeverity
	userAction bool
	message    string
	cause      error
	context    ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError, // Default severity
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

// WithCause sets the wrapped error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	if b.context == nil {
		b.context = make(ErrorContext)
	}
	b.context[key] = value
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// UserAction marks the error as fixable only by changing the inputs or the
// environment. Builds are never retried automatically.
func (b *ErrorBuilder) UserAction() *ErrorBuilder {
	b.userAction = true
	return b
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category:   b.category,
		severity:   b.severity,
		userAction: b.userAction,
		message:    b.message,
		cause:      b.cause,
		context:    b.context,
	}
}

// Convenience constructors for the pipeline's error kinds.

// ConfigError creates a manifest or configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal().UserAction()
}

// NotFoundError creates an error for a source listing that does not exist.
func NotFoundError(message string) *ErrorBuilder {
	return NewError(CategoryNotFound, message).Fatal().UserAction()
}

// BuildError creates an external toolchain error.
func BuildError(message string) *ErrorBuilder {
	return NewError(CategoryBuild, message).Fatal()
}

// ArtifactMissingError creates an error for compiled output that is absent or unreadable.
func ArtifactMissingError(message string) *ErrorBuilder {
	return NewError(CategoryArtifactMissing, message).Fatal()
}

// IOError creates a filesystem error.
func IOError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).Fatal()
}
