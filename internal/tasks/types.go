package tasks

type createTaskRequest struct {
	Title string `json:"title"`
}

// updateTaskRequest distinguishes "field omitted" (nil) from "field set to a
// zero value": only supplied fields are applied to the stored document.
type updateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}
