package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldUsername   = "username"
	FieldAmount     = "amount_cents"
	FieldCategory   = "category"
	FieldSource     = "source"
	FieldFormat     = "format"
)

// Standard component names
const (
	ComponentApp  = "app"
	ComponentHTTP = "http"
)
