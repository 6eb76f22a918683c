package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"todoctl/internal/backend/rest"
	"todoctl/internal/notify"
	"todoctl/internal/server"
	"todoctl/internal/service"
	"todoctl/internal/storage"
	"todoctl/internal/tasklist"
)

func newTestServer(t *testing.T, repo storage.Repository) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(server.New(repo, zap.NewNop(), time.Second).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestServer_Routes(t *testing.T) {
	repo := storage.NewMemoryRepository()
	ts := newTestServer(t, repo)

	code, body := do(t, ts, http.MethodGet, "/todos", "")
	if code != http.StatusOK || body != "[]\n" {
		t.Fatalf("expected empty list, got %d %q", code, body)
	}

	code, body = do(t, ts, http.MethodPost, "/todos", `{"title":"buy milk","completed":false}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %q", code, body)
	}
	var created service.Task
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID.IsZero() || created.Title != "buy milk" || created.Completed {
		t.Fatalf("unexpected created task %+v", created)
	}

	code, body = do(t, ts, http.MethodPut, "/todos/"+created.ID.String(), `{"id":"ignored","title":"buy oat milk","completed":true}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %q", code, body)
	}
	var updated service.Task
	if err := json.Unmarshal([]byte(body), &updated); err != nil {
		t.Fatal(err)
	}
	want := service.Task{ID: created.ID, Title: "buy oat milk", Completed: true}
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Errorf("update mismatch (-want +got):\n%s", diff)
	}

	code, _ = do(t, ts, http.MethodGet, "/todos/"+created.ID.String(), "")
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}

	code, body = do(t, ts, http.MethodDelete, "/todos/"+created.ID.String(), "")
	if code != http.StatusNoContent || body != "" {
		t.Errorf("expected empty 204, got %d %q", code, body)
	}

	code, _ = do(t, ts, http.MethodGet, "/todos/"+created.ID.String(), "")
	if code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", code)
	}
}

func TestServer_Errors(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryRepository())

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		code    int
		message string
	}{
		{"empty title", http.MethodPost, "/todos", `{"title":"  "}`, http.StatusBadRequest, "title is required"},
		{"empty body", http.MethodPost, "/todos", "", http.StatusBadRequest, "request body is empty"},
		{"malformed body", http.MethodPost, "/todos", `{"title":`, http.StatusBadRequest, ""},
		{"update unknown", http.MethodPut, "/todos/nope", `{"title":"x"}`, http.StatusNotFound, "task not found"},
		{"update empty title", http.MethodPut, "/todos/nope", `{"title":""}`, http.StatusBadRequest, "title is required"},
		{"delete unknown", http.MethodDelete, "/todos/nope", "", http.StatusNotFound, "task not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, ts, tt.method, tt.path, tt.body)
			if code != tt.code {
				t.Fatalf("expected %d, got %d (%q)", tt.code, code, body)
			}

			var envelope struct {
				Error struct {
					Code    int    `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal([]byte(body), &envelope); err != nil {
				t.Fatalf("expected an error envelope, got %q", body)
			}
			if envelope.Error.Code != tt.code {
				t.Errorf("expected code %d in body, got %d", tt.code, envelope.Error.Code)
			}
			if tt.message != "" && envelope.Error.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, envelope.Error.Message)
			}
		})
	}
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryRepository())

	code, body := do(t, ts, http.MethodGet, "/health", "")
	if code != http.StatusOK || body != "{\"status\":\"ok\"}\n" {
		t.Errorf("unexpected health response %d %q", code, body)
	}
}

// panicRepo panics on List and fails everything else.
type panicRepo struct {
	storage.Repository
}

func (panicRepo) List(context.Context) ([]service.Task, error) { panic("boom") }

func (panicRepo) Delete(context.Context, service.ID) error { return errors.New("disk on fire") }

func TestServer_RecoversFromPanic(t *testing.T) {
	ts := newTestServer(t, panicRepo{})

	code, body := do(t, ts, http.MethodGet, "/todos", "")
	if code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d %q", code, body)
	}

	// The server keeps serving.
	code, body = do(t, ts, http.MethodDelete, "/todos/1", "")
	if code != http.StatusInternalServerError || !strings.Contains(body, "internal error") {
		t.Errorf("expected 500 internal error, got %d %q", code, body)
	}
}

func TestServer_ListenAndServeStopsWithContext(t *testing.T) {
	srv := server.New(storage.NewMemoryRepository(), zap.NewNop(), 0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

// The REST client, the controller and the server agree on the contract.
func TestEndToEnd_ControllerAgainstServer(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryRepository())

	client, err := rest.NewWithHTTPClient(ts.URL+"/todos", ts.Client(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	rec := &notify.Recorder{}
	ctrl := tasklist.New(client, rec, zap.NewNop())
	ctx := context.Background()

	if err := ctrl.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, title := range []string{"a", "b", "c"} {
		if err := ctrl.Create(ctx, title); err != nil {
			t.Fatalf("Create(%q): %v", title, err)
		}
	}

	tasks := ctrl.Tasks()
	if err := ctrl.ToggleCompletion(ctx, tasks[1]); err != nil {
		t.Fatalf("ToggleCompletion: %v", err)
	}
	ctrl.BeginEdit(tasks[2])
	ctrl.SetEditText("c2")
	if err := ctrl.SaveEdit(ctx); err != nil {
		t.Fatalf("SaveEdit: %v", err)
	}
	if err := ctrl.Delete(ctx, tasks[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []service.Task{
		{ID: tasks[1].ID, Title: "b", Completed: true},
		{ID: tasks[2].ID, Title: "c2"},
	}
	if diff := cmp.Diff(want, ctrl.Tasks()); diff != "" {
		t.Errorf("controller state mismatch (-want +got):\n%s", diff)
	}

	// A fresh load sees the same thing.
	if err := ctrl.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(want, ctrl.Tasks()); diff != "" {
		t.Errorf("reloaded state mismatch (-want +got):\n%s", diff)
	}

	// Deleting twice reports not found through the notifier.
	err = ctrl.Delete(ctx, tasks[0].ID)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if msg, ok := rec.Last(); !ok || msg.Text != tasklist.MsgDeleteFailed {
		t.Errorf("expected delete failure notification, got %+v", msg)
	}
}
