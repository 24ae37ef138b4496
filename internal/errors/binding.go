package errors

import "fmt"

// BindingError is a generation-time failure for a single annotated item
type BindingError struct {
	*BaseError
	Function string // identifier of the offending function, if known
}

// WithLocation adds location information to the error
func (e *BindingError) WithLocation(loc SourceLocation) *BindingError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithFunction records the identifier of the offending function
func (e *BindingError) WithFunction(name string) *BindingError {
	e.Function = name
	e.BaseError.WithContext("function", name)
	return e
}

// NewUnsupportedInputShapeError reports an annotated item no binding can be synthesized for
func NewUnsupportedInputShapeError(itemKind, detail string) *BindingError {
	message := fmt.Sprintf("#[jni] is only supported on functions, found %s", itemKind)
	if detail != "" {
		message = fmt.Sprintf("#[jni] cannot bind %s: %s", itemKind, detail)
	}
	return &BindingError{
		BaseError: New(UnsupportedInputShapeCode, message).
			WithContext("item_kind", itemKind).
			WithSuggestion("Move the #[jni] attribute onto a free function"),
	}
}

// NewUnsupportedSelfParameterError reports a method receiver in a bound function
func NewUnsupportedSelfParameterError(function, receiver string, index int) *BindingError {
	err := &BindingError{
		BaseError: New(UnsupportedSelfParameterCode,
			fmt.Sprintf("function '%s' takes '%s' at position %d: self parameters are not supported", function, receiver, index)).
			WithContext("receiver", receiver).
			WithContext("position", index).
			WithSuggestions(
				"Turn the method into a free function taking the receiver type explicitly",
				"Wrap the method call in a free function and annotate that instead",
			),
	}
	return err.WithFunction(function)
}

// NewMalformedOptionsError reports an option value that cannot be interpreted
func NewMalformedOptionsError(key, value, reason string) *BindingError {
	message := fmt.Sprintf("malformed #[jni] option '%s': %s", key, reason)
	if value != "" {
		message = fmt.Sprintf("malformed #[jni] option %s = %q: %s", key, value, reason)
	}
	return &BindingError{
		BaseError: New(MalformedOptionsCode, message).
			WithContext("option", key).
			WithContext("value", value).
			WithSuggestion(`Use #[jni], or #[jni(class = "com.example.Foo", name = "bar")]`),
	}
}

// NewNamingCollisionError reports two bindings that mangle to the same exported symbol
func NewNamingCollisionError(symbol, function string, existing SourceLocation, existingFunction string) *BindingError {
	err := &BindingError{
		BaseError: New(NamingCollisionCode,
			fmt.Sprintf("exported symbol '%s' for '%s' is already used by '%s' at %s", symbol, function, existingFunction, existing)).
			WithContext("symbol", symbol).
			WithContext("existing_function", existingFunction).
			WithContext("existing_location", existing.String()).
			WithSuggestions(
				`Give one of the functions a distinct class with #[jni(class = "...")]`,
				`Or rename its exported method with #[jni(name = "...")]`,
			),
	}
	return err.WithFunction(function)
}

// SyntaxError represents a failure to parse an annotated item
type SyntaxError struct {
	*BaseError
	Token string // the token that caused the error, if known
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// WithToken sets the problematic token
func (e *SyntaxError) WithToken(token string) *SyntaxError {
	e.Token = token
	e.BaseError.WithContext("token", token)
	return e
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// GenerationError represents an error while rendering or writing output
type GenerationError struct {
	*BaseError
	GenerationType string // what was being generated
	TargetFile     string // output file, if any
	Stage          string // generation stage
}
