package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields propagated through the call chain.
const (
	// FieldAnalysisID is the per-request analysis run ID.
	FieldAnalysisID = "analysis_id"

	// FieldPostID is the post being analyzed.
	FieldPostID = "post_id"

	// FieldBatch is the comment batch index within one run.
	FieldBatch = "batch"

	// FieldComponent is the component/module name.
	FieldComponent = "component"
)
