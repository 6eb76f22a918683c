package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"todoctl/internal/backend/rest"
	"todoctl/internal/service"
)

// recordedRequest captures what the fake store received.
type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeStore struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (f *fakeStore) requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.reqs...)
}

// newTestClient serves handler behind a recording fake store. handler gets
// the request body already read.
func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body string)) (*rest.Client, *fakeStore) {
	t.Helper()

	store := &fakeStore{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		store.mu.Lock()
		store.reqs = append(store.reqs, recordedRequest{Method: r.Method, Path: r.URL.EscapedPath(), Body: string(data)})
		store.mu.Unlock()
		handler(w, r, string(data))
	}))
	t.Cleanup(srv.Close)

	client, err := rest.NewWithHTTPClient(srv.URL+"/todos", srv.Client(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewWithHTTPClient() error = %v", err)
	}
	return client, store
}

func TestNewWithHTTPClient_InvalidEndpoint(t *testing.T) {
	for _, endpoint := range []string{"", "todos", "://bad", "http://h/todos?x=1", "http://h/todos?", "http://h/todos#frag"} {
		if _, err := rest.NewWithHTTPClient(endpoint, nil, nil); err == nil {
			t.Errorf("expected error for endpoint %q", endpoint)
		}
	}
}

func TestListTasks(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request, body string) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":1,"title":"buy milk","completed":false},{"id":"a7","title":"walk dog","completed":true}]`)
	})

	got, err := client.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}

	want := []service.Task{
		{ID: "1", Title: "buy milk"},
		{ID: "a7", Title: "walk dog", Completed: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]recordedRequest{{Method: "GET", Path: "/todos"}}, store.requests()); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestListTasks_Empty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, body string) {
		io.WriteString(w, `[]`)
	})

	got, err := client.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no tasks, got %+v", got)
	}
}

func TestCreateTask(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request, body string) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":201,"title":"buy milk","completed":false}`)
	})

	got, err := client.CreateTask(context.Background(), service.NewTask{Title: "buy milk"})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if want := (service.Task{ID: "201", Title: "buy milk"}); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	want := []recordedRequest{{Method: "POST", Path: "/todos", Body: `{"title":"buy milk","completed":false}`}}
	if diff := cmp.Diff(want, store.requests()); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateTask_UsesStoreResponse(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request, body string) {
		var in service.Task
		if err := json.Unmarshal([]byte(body), &in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		in.Title = strings.ToUpper(in.Title)
		json.NewEncoder(w).Encode(in)
	})

	got, err := client.UpdateTask(context.Background(), service.Task{ID: "1", Title: "buy milk", Completed: true})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if want := (service.Task{ID: "1", Title: "BUY MILK", Completed: true}); got != want {
		t.Errorf("expected store value %+v, got %+v", want, got)
	}
	want := []recordedRequest{{Method: "PUT", Path: "/todos/1", Body: `{"id":1,"title":"buy milk","completed":true}`}}
	if diff := cmp.Diff(want, store.requests()); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateTask_EmptyResponseKeepsSentValue(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, body string) {
		w.WriteHeader(http.StatusNoContent)
	})

	sent := service.Task{ID: "5c1e", Title: "walk dog", Completed: true}
	got, err := client.UpdateTask(context.Background(), sent)
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if got != sent {
		t.Errorf("expected %+v, got %+v", sent, got)
	}
}

func TestItemURLEscapesID(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request, body string) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteTask(context.Background(), "a/b c"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	reqs := store.requests()
	if len(reqs) != 1 || reqs[0].Method != "DELETE" {
		t.Fatalf("unexpected requests %+v", reqs)
	}
	if reqs[0].Path != "/todos/a%2Fb%20c" {
		t.Errorf("expected escaped id in path, got %q", reqs[0].Path)
	}
}

func TestDeleteTask_IgnoresBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, body string) {
		io.WriteString(w, `{}`)
	})

	if err := client.DeleteTask(context.Background(), "7"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    `{"error":{"code":404,"message":"task not found"}}`,
			wantErr: service.ErrNotFound,
		},
		{
			name:    "bad request",
			status:  http.StatusBadRequest,
			body:    `{"error":{"code":400,"message":"title is required"}}`,
			wantErr: service.ErrRejected,
			wantMsg: "title is required",
		},
		{
			name:    "unprocessable",
			status:  http.StatusUnprocessableEntity,
			body:    `nope`,
			wantErr: service.ErrRejected,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":{"code":500,"message":"database unavailable"}}`,
			wantMsg: "task store returned 500: database unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, body string) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := client.DeleteTask(context.Background(), "1")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error to contain %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, body string) {
		io.WriteString(w, `{"todos":`)
	})

	if _, err := client.ListTasks(context.Background()); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, body string) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	client.SetTimeout(20 * time.Millisecond)

	_, err := client.ListTasks(context.Background())
	if !errors.Is(err, rest.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
