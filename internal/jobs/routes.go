package jobs

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"webready/internal/engine"
	"webready/internal/export"
	"webready/internal/hub"
	"webready/internal/upload"
	"webready/internal/walker"
)

// RegisterRoutes mounts the analysis job API routes.
func RegisterRoutes(r chi.Router, runner *Runner, store *Store, h *hub.Hub) {
	r.Route("/api/jobs", func(r chi.Router) {
		r.Post("/", handleCreate(runner))
		r.Get("/", handleList(store))
		r.Get("/{id}", handleGet(store))
		r.Get("/{id}/result", handleResult(runner))
		r.Get("/{id}/export", handleExport(runner))
		r.Post("/{id}/cancel", handleCancel(runner, store))
		r.Delete("/{id}", handleDelete(runner, store))
		r.Get("/{id}/ws", handleWatch(h))
	})
}

type createRequest struct {
	Path        string `json:"path"`
	ProjectName string `json:"project_name"`
}

func handleCreate(runner *Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			job   Job
			files []engine.SourceFile
			err   error
		)

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			job, files, err = createFromUpload(r)
		} else {
			job, files, err = createFromPath(r)
		}
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}

		created, err := runner.Start(r.Context(), job, files)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(created)
	}
}

func createFromUpload(r *http.Request) (Job, []engine.SourceFile, error) {
	if err := r.ParseMultipartForm(upload.MaxArchiveSize); err != nil {
		return Job{}, nil, errors.New("invalid multipart form")
	}
	f, header, err := r.FormFile("archive")
	if err != nil {
		return Job{}, nil, errors.New("archive file is required")
	}
	defer f.Close()

	if header.Size > upload.MaxArchiveSize {
		return Job{}, nil, errors.New("archive exceeds the size limit")
	}
	data, err := io.ReadAll(io.LimitReader(f, upload.MaxArchiveSize+1))
	if err != nil {
		return Job{}, nil, errors.New("failed to read archive")
	}
	if int64(len(data)) > upload.MaxArchiveSize {
		return Job{}, nil, errors.New("archive exceeds the size limit")
	}

	files, err := upload.ExtractZip(data)
	if err != nil {
		return Job{}, nil, err
	}

	name := r.FormValue("project_name")
	if name == "" {
		name = strings.TrimSuffix(header.Filename, ".zip")
	}
	return Job{ProjectName: name, Source: SourceUpload}, files, nil
}

func createFromPath(r *http.Request) (Job, []engine.SourceFile, error) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return Job{}, nil, errors.New("invalid request body")
	}
	if req.Path == "" {
		return Job{}, nil, errors.New("path is required")
	}

	infos, err := walker.Walk(walker.Config{RootDir: req.Path})
	if err != nil {
		return Job{}, nil, err
	}

	files := make([]engine.SourceFile, 0, len(infos))
	for _, info := range infos {
		content, err := os.ReadFile(info.Path)
		if err != nil {
			return Job{}, nil, err
		}
		files = append(files, engine.SourceFile{Path: info.RelPath, Content: content})
	}

	name := req.ProjectName
	if name == "" {
		name = projectNameFromPath(req.Path)
	}
	return Job{ProjectName: name, Source: SourcePath}, files, nil
}

func projectNameFromPath(p string) string {
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if p == "" || p == "." {
		return "project"
	}
	return p
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := 50, 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				offset = n
			}
		}

		jobs, err := store.List(r.Context(), limit, offset)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if jobs == nil {
			jobs = []Job{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(jobs)
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(job)
	}
}

func handleResult(runner *Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := runner.Result(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
	}
}

func handleExport(runner *Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := runner.Result(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}

		format := r.URL.Query().Get("format")
		if format == "" {
			format = "json"
		}
		out, contentType, err := export.Render(res, format)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Write(out)
	}
}

func handleCancel(runner *Runner, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		job, err := store.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if job.Terminal() {
			http.Error(w, `{"error":"job already finished"}`, http.StatusConflict)
			return
		}

		runner.Cancel(id)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "cancelling"})
	}
}

func handleDelete(runner *Runner, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		runner.Cancel(id)
		if err := store.Delete(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		if runner.results != nil {
			runner.results.Remove(id)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleWatch(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, chi.URLParam(r, "id"))
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
}
