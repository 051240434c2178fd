package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldErrorType  = "error_type"
	FieldOperation  = "operation"
	FieldRoundID    = "round_id"
	FieldCourse     = "course"
	FieldDate       = "date"
	FieldCost       = "cost"
	FieldScore      = "score"
	FieldFilter     = "filter"
	FieldFilterKind = "filter_kind"
	FieldCount      = "count"
	FieldChartKind  = "chart_kind"
	FieldImported   = "imported"
	FieldSkipped    = "skipped"
	FieldLine       = "line"
	FieldReason     = "reason"
	FieldPath       = "path"
	FieldBackend    = "backend"
	FieldCacheHit   = "cache_hit"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentEngine  = "engine"
	ComponentEditor  = "editor"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentImport  = "import"
	ComponentExport  = "export"
	ComponentChart   = "chart"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpDeleteAll = "delete_all"
	OpList      = "list"
	OpStats     = "stats"
	OpSeries    = "series"
	OpImport    = "import"
	OpExport    = "export"
	OpRender    = "render"
	OpStartup   = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRound adds round-related fields
func (f LogFields) WithRound(id int64, course, date string, cost, score int64) LogFields {
	f[FieldRoundID] = id
	f[FieldCourse] = course
	f[FieldDate] = date
	f[FieldCost] = cost
	f[FieldScore] = score
	return f
}

// WithFilter adds the filter text and its classified kind
func (f LogFields) WithFilter(text, kind string) LogFields {
	f[FieldFilter] = text
	f[FieldFilterKind] = kind
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
