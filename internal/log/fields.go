package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldBackend   = "backend"
	FieldRows      = "rows"
	FieldMonth     = "month"
	FieldUnitName  = "unit_name"
	FieldRowRef    = "row_ref"
	FieldFilename  = "filename"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentEngine  = "engine"
	ComponentSheets  = "sheets"
	ComponentSession = "session"
	ComponentExport  = "export"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)
