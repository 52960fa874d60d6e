package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"webready/internal/analyzer"
	"webready/internal/cache"
	"webready/internal/config"
	"webready/internal/db"
	"webready/internal/engine"
	"webready/internal/hub"
	"webready/internal/toolkit"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func sampleResult() *analyzer.ProjectResult {
	return &analyzer.ProjectResult{
		ProjectName: "demo",
		TotalFiles:  2,
		Summary:     analyzer.Summary{TotalLOC: 8, WebReadyPercentage: 37.5},
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, Job{ProjectName: "demo", Source: SourceUpload, FileCount: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated ID")
	}
	if created.Status != engine.StatusPending {
		t.Errorf("status = %s, want pending", created.Status)
	}

	fetched, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.ProjectName != "demo" || fetched.FileCount != 2 {
		t.Errorf("fetched = %+v", fetched)
	}
}

func TestStoreGetNotFound(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	job, err := store.Create(ctx, Job{ProjectName: "demo", Source: SourcePath})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.SetProgress(ctx, job.ID, engine.StatusRunning, 42.5); err != nil {
		t.Fatalf("SetProgress: %v", err)
	}
	mid, _ := store.Get(ctx, job.ID)
	if mid.Status != engine.StatusRunning || mid.Progress != 42.5 {
		t.Errorf("mid = %+v", mid)
	}

	if err := store.Complete(ctx, job.ID, sampleResult()); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	done, _ := store.Get(ctx, job.ID)
	if done.Status != engine.StatusCompleted || done.Progress != 100 {
		t.Errorf("done = %+v", done)
	}
	if done.CompletedAt == nil {
		t.Error("completed_at not set")
	}
	if !done.Terminal() {
		t.Error("completed job must be terminal")
	}

	res, err := store.Result(ctx, job.ID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Summary.WebReadyPercentage != 37.5 {
		t.Errorf("result = %+v", res.Summary)
	}
}

func TestStoreFail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	job, _ := store.Create(ctx, Job{ProjectName: "demo", Source: SourceUpload})
	if err := store.Fail(ctx, job.ID, "analysis cancelled"); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	failed, _ := store.Get(ctx, job.ID)
	if failed.Status != engine.StatusFailed || failed.Error != "analysis cancelled" {
		t.Errorf("failed = %+v", failed)
	}
	if _, err := store.Result(ctx, job.ID); err == nil {
		t.Error("a failed job has no result document")
	}
}

func TestStoreDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	job, _ := store.Create(ctx, Job{ProjectName: "demo", Source: SourceUpload})
	if err := store.Delete(ctx, job.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, job.ID); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
	if err := store.Delete(ctx, job.ID); err != ErrNotFound {
		t.Errorf("double delete err = %v, want ErrNotFound", err)
	}
}

func TestStoreList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, Job{ProjectName: "demo", Source: SourceUpload}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	jobs, err := store.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("got %d jobs, want 2", len(jobs))
	}

	rest, err := store.List(ctx, 10, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("got %d jobs at offset 2, want 1", len(rest))
	}
}

func setupRunner(t *testing.T) (*Runner, *Store) {
	t.Helper()
	store := setupTestStore(t)
	results, err := cache.New(8)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	eng := engine.New(toolkit.DefaultRegistry(), config.DefaultThresholds(), 2)
	runner := NewRunner(store, eng, hub.New(), results)
	return runner, store
}

func waitTerminal(t *testing.T, store *Store, id string) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if job.Terminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal state")
	return nil
}

func TestRunnerCompletesJob(t *testing.T) {
	runner, store := setupRunner(t)

	files := []engine.SourceFile{
		{Path: "logic.py", Content: []byte("def add(a, b):\n    c = a + b\n    return c\n")},
	}
	job, err := runner.Start(context.Background(), Job{ProjectName: "demo", Source: SourceUpload}, files)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := waitTerminal(t, store, job.ID)
	if done.Status != engine.StatusCompleted {
		t.Fatalf("status = %s (%s), want completed", done.Status, done.Error)
	}

	res, err := runner.Result(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Summary.LogicFiles != 1 {
		t.Errorf("result summary = %+v", res.Summary)
	}
}

func TestRunnerEmptyInputFails(t *testing.T) {
	runner, store := setupRunner(t)

	job, err := runner.Start(context.Background(), Job{ProjectName: "demo", Source: SourceUpload}, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := waitTerminal(t, store, job.ID)
	if done.Status != engine.StatusFailed || done.Error == "" {
		t.Errorf("done = %+v, want failed with message", done)
	}
}

func setupAPI(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	runner, store := setupRunner(t)
	r := chi.NewRouter()
	RegisterRoutes(r, runner, store, hub.New())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func TestCreateJobFromPath(t *testing.T) {
	dir := t.TempDir()
	src := "def add(a, b):\n    c = a + b\n    return c\n"
	if err := os.WriteFile(filepath.Join(dir, "util.py"), []byte(src), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	srv, store := setupAPI(t)

	body := strings.NewReader(`{"path": "` + dir + `", "project_name": "demo"}`)
	resp, err := http.Post(srv.URL+"/api/jobs", "application/json", body)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.ProjectName != "demo" || job.Source != SourcePath || job.FileCount != 1 {
		t.Errorf("job = %+v", job)
	}

	done := waitTerminal(t, store, job.ID)
	if done.Status != engine.StatusCompleted {
		t.Fatalf("status = %s (%s)", done.Status, done.Error)
	}

	res, err := http.Get(srv.URL + "/api/jobs/" + job.ID + "/result")
	if err != nil {
		t.Fatalf("GET result: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("result status = %d", res.StatusCode)
	}
	var doc analyzer.ProjectResult
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if doc.Summary.LogicFiles != 1 {
		t.Errorf("result = %+v", doc.Summary)
	}
}

func TestCreateJobRejectsMissingPath(t *testing.T) {
	srv, _ := setupAPI(t)

	resp, err := http.Post(srv.URL+"/api/jobs", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetJobNotFound(t *testing.T) {
	srv, _ := setupAPI(t)

	resp, err := http.Get(srv.URL + "/api/jobs/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	srv, store := setupAPI(t)

	job, err := store.Create(context.Background(), Job{ProjectName: "demo", Source: SourceUpload})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Complete(context.Background(), job.ID, sampleResult()); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/jobs/" + job.ID + "/export?format=pdf")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	md, err := http.Get(srv.URL + "/api/jobs/" + job.ID + "/export?format=markdown")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer md.Body.Close()
	if md.StatusCode != http.StatusOK {
		t.Errorf("markdown status = %d, want 200", md.StatusCode)
	}
	if ct := md.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("content type = %q", ct)
	}
}
