package handler

type createTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

// updateTaskRequest carries a partial task update. Pointer fields
// distinguish "absent" from "set to zero value".
type updateTaskRequest struct {
	Description *string `json:"description" validate:"omitempty,min=1"`
	Completed   *bool   `json:"completed"`
}

// allowedTaskUpdates is the whitelist of updatable task fields.
var allowedTaskUpdates = map[string]struct{}{
	"description": {},
	"completed":   {},
}
