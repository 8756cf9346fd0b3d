package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"planner/internal/model"
	"planner/internal/repository"
)

type resource[T any] struct {
	kind model.Kind[T]
	repo *repository.EntityRepository[T]
}

func register[T any](r *mux.Router, kind model.Kind[T], repo *repository.EntityRepository[T]) {
	h := &resource[T]{kind: kind, repo: repo}
	collection := "/" + kind.Resource
	item := collection + "/{id:[0-9]+}"

	r.Methods(http.MethodGet).Path(collection).HandlerFunc(h.list)
	r.Methods(http.MethodPost).Path(collection).HandlerFunc(h.create)
	r.Methods(http.MethodGet).Path(item).HandlerFunc(h.get)
	r.Methods(http.MethodPut).Path(item).HandlerFunc(h.replace)
	r.Methods(http.MethodDelete).Path(item).HandlerFunc(h.delete)
}

func (h *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *resource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *resource[T]) create(w http.ResponseWriter, r *http.Request) {
	item, ok := h.decode(w, r)
	if !ok {
		return
	}
	if h.kind.HasCompletion() {
		h.kind.SetCompleted(&item, false)
	}
	if err := h.repo.Create(r.Context(), &item); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *resource[T]) replace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.repo.Replace(r.Context(), id, &item); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *resource[T]) decode(w http.ResponseWriter, r *http.Request) (T, bool) {
	var item T
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return item, false
	}
	if h.kind.Blank(item) {
		http.Error(w, h.kind.Name+" text is required", http.StatusBadRequest)
		return item, false
	}
	return item, true
}

func (h *resource[T]) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, h.kind.Name+" not found", http.StatusNotFound)
		return
	}
	log.Printf("%s request: %v", h.kind.Name, err)
	http.Error(w, "storage error", http.StatusInternalServerError)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
