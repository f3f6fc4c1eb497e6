package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasks-backend/internal/analytics"
	"tasks-backend/internal/logger"
	"tasks-backend/internal/store"
)

// Collection is the document collection holding task records.
const Collection = "task"

// Gateway is the slice of the persistence gateway the task handlers use.
// *store.Store satisfies it; tests substitute an in-memory fake.
type Gateway interface {
	Insert(ctx context.Context, collection string, fields bson.M) (primitive.ObjectID, error)
	FindAll(ctx context.Context, collection string, filter bson.M, results any) error
	FindByID(ctx context.Context, collection string, id primitive.ObjectID, dest any) error
	UpdateByID(ctx context.Context, collection string, id primitive.ObjectID, set bson.M) (int64, error)
	DeleteByID(ctx context.Context, collection string, id primitive.ObjectID) (int64, error)
}

type Handler struct {
	store Gateway
}

func NewHandler(gw Gateway) *Handler {
	return &Handler{store: gw}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/tasks", h.handleTasks)
	mux.HandleFunc("/tasks/", h.handleTaskByID)
}

func (h *Handler) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTasks(w, r)
	case http.MethodPost:
		h.createTask(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/tasks/")
	rawID, action, _ := strings.Cut(rest, "/")
	if rawID == "" || (action != "" && action != "toggle") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch {
	case r.Method == http.MethodPatch && action == "toggle":
		h.toggleTask(w, r, rawID)
	case r.Method == http.MethodPatch:
		h.updateTask(w, r, rawID)
	case r.Method == http.MethodDelete && action == "":
		h.deleteTask(w, r, rawID)
	case r.Method == http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	var docs []Task
	if err := h.store.FindAll(r.Context(), Collection, bson.M{}, &docs); err != nil {
		h.storeError(w, r, "list tasks", err)
		return
	}

	// Newest first; documents without created_at sink to the bottom.
	sort.SliceStable(docs, func(i, j int) bool {
		return timeOrZero(docs[i].CreatedAt).After(timeOrZero(docs[j].CreatedAt))
	})

	views := make([]TaskView, 0, len(docs))
	for _, d := range docs {
		views = append(views, d.View())
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var body createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	now := time.Now().UTC()
	id, err := h.store.Insert(r.Context(), Collection, bson.M{
		"title":      body.Title,
		"completed":  false,
		"created_at": now,
	})
	if err != nil {
		h.storeError(w, r, "create task", err)
		return
	}

	_ = analytics.Log(r.Context(), h.store, analytics.FromRequest(r), "task_created", bson.M{
		"task_id":   id.Hex(),
		"title_len": len(body.Title),
	})

	// Round-trip through the store so the response carries the canonical
	// document, not what we think we wrote.
	var doc Task
	if err := h.store.FindByID(r.Context(), Collection, id, &doc); err != nil {
		doc = Task{ID: id, Title: body.Title, Completed: false, CreatedAt: &now}
	}
	writeJSON(w, http.StatusCreated, doc.View())
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseTaskID(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var body updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	set := bson.M{}
	if body.Title != nil {
		set["title"] = *body.Title
	}
	if body.Completed != nil {
		set["completed"] = *body.Completed
	}

	if len(set) == 0 {
		// Nothing to apply: echo the current record without stamping
		// updated_at.
		var doc Task
		if err := h.store.FindByID(r.Context(), Collection, id, &doc); err != nil {
			h.fetchError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, doc.View())
		return
	}

	set["updated_at"] = time.Now().UTC()

	matched, err := h.store.UpdateByID(r.Context(), Collection, id, set)
	if err != nil {
		h.storeError(w, r, "update task", err)
		return
	}
	if matched == 0 {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	if body.Completed != nil {
		event := "task_uncompleted"
		if *body.Completed {
			event = "task_completed"
		}
		_ = analytics.Log(r.Context(), h.store, analytics.FromRequest(r), event, bson.M{"task_id": id.Hex()})
	}

	var doc Task
	if err := h.store.FindByID(r.Context(), Collection, id, &doc); err != nil {
		h.fetchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc.View())
}

func (h *Handler) toggleTask(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseTaskID(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var doc Task
	if err := h.store.FindByID(r.Context(), Collection, id, &doc); err != nil {
		h.fetchError(w, r, err)
		return
	}

	// Plain read-then-write: two concurrent toggles on the same task can
	// lose one flip. The storage contract does not require compare-and-set
	// here.
	_, err = h.store.UpdateByID(r.Context(), Collection, id, bson.M{
		"completed":  !doc.Completed,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		h.storeError(w, r, "toggle task", err)
		return
	}

	event := "task_uncompleted"
	if !doc.Completed {
		event = "task_completed"
	}
	_ = analytics.Log(r.Context(), h.store, analytics.FromRequest(r), event, bson.M{"task_id": id.Hex()})

	if err := h.store.FindByID(r.Context(), Collection, id, &doc); err != nil {
		h.fetchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc.View())
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseTaskID(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	deleted, err := h.store.DeleteByID(r.Context(), Collection, id)
	if err != nil {
		h.storeError(w, r, "delete task", err)
		return
	}
	if deleted == 0 {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	_ = analytics.Log(r.Context(), h.store, analytics.FromRequest(r), "task_deleted", bson.M{"task_id": id.Hex()})

	w.WriteHeader(http.StatusNoContent)
}

// fetchError maps a FindByID failure: missing document is the client's 404,
// everything else is a server-side store problem.
func (h *Handler) fetchError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	h.storeError(w, r, "fetch task", err)
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.ErrorLog(r.Context(), "%s: %v", op, err)
	if errors.Is(err, store.ErrNotConfigured) {
		writeError(w, http.StatusInternalServerError, "database not configured")
		return
	}
	writeError(w, http.StatusInternalServerError, "database error")
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
