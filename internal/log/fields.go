package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldSection    = "section"

	FieldDatasetID  = "dataset_id"
	FieldAnalysisID = "analysis_id"
	FieldIndustry   = "industry"
	FieldMonths     = "months"
	FieldRows       = "rows"
	FieldWarnings   = "warnings"
	FieldScore      = "score"
	FieldStatus     = "status"
	FieldLanguage   = "language"
	FieldFilename   = "filename"
	FieldAccountID  = "account_id"
)

// Components defines standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentCore     = "core"
	ComponentAnalysis = "analysis"
	ComponentIngest   = "ingest"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentInsights = "insights"
	ComponentBank     = "bank"
	ComponentSheets   = "sheets"
	ComponentCache    = "cache"
)

// Operations defines standard operation names.
const (
	OpUpload    = "upload"
	OpNormalize = "normalize"
	OpAnalyze   = "analyze"
	OpNarrate   = "narrate"
	OpTranslate = "translate"
	OpPublish   = "publish"
	OpConsume   = "consume"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
