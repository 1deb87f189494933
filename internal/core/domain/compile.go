package domain

// CompileParams is a client request to compile one or more build targets.
type CompileParams struct {
	Targets []BuildTargetIdentifier `json:"targets"`
	// OriginID is generated by the client and echoed in the result and in compile reports.
	OriginID *string `json:"originId,omitempty"`
	// Arguments are optional arguments to the compilation process.
	Arguments []string `json:"arguments,omitempty"`
}

// CompileResult is the single final answer to a CompileParams request.
type CompileResult struct {
	OriginID   *string    `json:"originId,omitempty"`
	StatusCode StatusCode `json:"statusCode"`
}

// BackendRequest is the input to one backend compile handler.
type BackendRequest struct {
	Target    *BuildTarget
	FieldSets []FieldSet
	// Arguments are carried along with the request. Backends currently ignore them.
	Arguments []string
}

// BackendResult is the outcome of one backend for one build target.
type BackendResult struct {
	Status StatusCode
	Tree   OutputTree
}

// TargetCompileResult aggregates every backend result of one build target.
type TargetCompileResult struct {
	Status StatusCode
	Tree   OutputTree
}
