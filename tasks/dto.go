package tasks

// CreateTaskRequest is the payload for creating a task. The owner never
// appears here; it always comes from the authenticated context.
type CreateTaskRequest struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// UpdateTaskRequest is the payload for a partial task update. The raw body
// is checked against the field whitelist before this struct is decoded.
type UpdateTaskRequest struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// ListParams are the parsed query parameters of a task listing. All are
// optional and independently applicable.
type ListParams struct {
	// Completed filters on the completed flag when set.
	Completed *bool
	// SortBy has the form "field" or "field:asc|desc" over the exported
	// JSON field names (createdAt, updatedAt, description, completed).
	SortBy string
	// Limit caps the number of returned tasks; zero means no cap.
	Limit int
	// Skip drops that many tasks from the start of the result.
	Skip int
}
