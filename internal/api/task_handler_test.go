package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockTaskService is a mock implementation of service.TaskService for testing
type MockTaskService struct {
	CreateTaskFn func(ctx context.Context, title, description string, done bool) (*domain.Task, error)
	ListTasksFn  func(ctx context.Context) ([]*domain.Task, error)
	GetTaskFn    func(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTaskFn func(ctx context.Context, id int64) error
}

// CreateTask implements service.TaskService
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	title, description string,
	done bool,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, title, description, done)
	}
	return nil, nil
}

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx)
	}
	return nil, nil
}

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, id)
	}
	return &domain.Task{ID: id}, nil
}

// UpdateTask implements service.TaskService
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	id int64,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, patch)
	}
	return nil, nil
}

// DeleteTask implements service.TaskService
func (m *MockTaskService) DeleteTask(ctx context.Context, id int64) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return nil
}

func newTestRouter(svc service.TaskService) http.Handler {
	h := NewTaskHandler(svc, nil)
	r := chi.NewRouter()
	r.Post("/api/tasks", h.CreateTask)
	r.Get("/api/tasks", h.ListTasks)
	r.Put("/api/tasks/{id}", h.UpdateTask)
	r.Delete("/api/tasks/{id}", h.DeleteTask)
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestNewTaskHandler(t *testing.T) {
	assert.Panics(t, func() { NewTaskHandler(nil, nil) })
	assert.NotNil(t, NewTaskHandler(&MockTaskService{}, nil))
}

func TestCreateTask(t *testing.T) {
	t.Run("created_with_defaults", func(t *testing.T) {
		var gotTitle, gotDescription string
		gotDone := true
		svc := &MockTaskService{
			CreateTaskFn: func(_ context.Context, title, description string, done bool) (*domain.Task, error) {
				gotTitle, gotDescription, gotDone = title, description, done
				return &domain.Task{ID: 1, Title: title, Description: description, Done: done}, nil
			},
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"id":1,"title":"Buy milk","description":"","done":false}`, rr.Body.String())
		assert.Equal(t, "Buy milk", gotTitle)
		assert.Equal(t, "", gotDescription)
		assert.False(t, gotDone)
	})

	t.Run("all_fields", func(t *testing.T) {
		svc := &MockTaskService{
			CreateTaskFn: func(_ context.Context, title, description string, done bool) (*domain.Task, error) {
				return &domain.Task{ID: 7, Title: title, Description: description, Done: done}, nil
			},
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/tasks",
			`{"title":"Walk dog","description":"twice","done":true}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"id":7,"title":"Walk dog","description":"twice","done":true}`, rr.Body.String())
	})

	t.Run("duplicate_title", func(t *testing.T) {
		svc := &MockTaskService{
			CreateTaskFn: func(_ context.Context, title, _ string, _ bool) (*domain.Task, error) {
				return nil, &service.TitleConflictError{Title: title}
			},
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Tarefa com o titulo Buy milk já existe"}`, rr.Body.String())
	})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "malformed_json", body: `{"title":`, wantErr: "Invalid request format"},
		{name: "title_wrong_type", body: `{"title":42}`, wantErr: "Invalid request format"},
		{name: "missing_title", body: `{"description":"x"}`, wantErr: "Invalid title: required field"},
		{name: "title_too_long", body: `{"title":"` + strings.Repeat("a", 101) + `"}`, wantErr: "Invalid title: too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockTaskService{
				CreateTaskFn: func(context.Context, string, string, bool) (*domain.Task, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}

			rr := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/tasks", tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, `{"error":"`+tt.wantErr+`"}`, rr.Body.String())
		})
	}

	t.Run("whitespace_title_is_accepted", func(t *testing.T) {
		svc := &MockTaskService{
			CreateTaskFn: func(_ context.Context, title, description string, done bool) (*domain.Task, error) {
				task, err := domain.NewTask(title, description, done)
				if err != nil {
					return nil, err
				}
				task.ID = 5
				return task, nil
			},
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/tasks", `{"title":"   "}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"id":5,"title":"   ","description":"","done":false}`, rr.Body.String())
	})

	t.Run("empty_title", func(t *testing.T) {
		rr := doRequest(t, newTestRouter(&MockTaskService{}), http.MethodPost, "/api/tasks", `{"title":""}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid title: required field"}`, rr.Body.String())
	})

	t.Run("unexpected_error", func(t *testing.T) {
		svc := &MockTaskService{
			CreateTaskFn: func(context.Context, string, string, bool) (*domain.Task, error) {
				return nil, errors.New("connection refused")
			},
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Failed to create task"}`, rr.Body.String())
		assert.NotContains(t, rr.Body.String(), "connection refused")
	})
}

func TestListTasks(t *testing.T) {
	t.Run("returns_tasks_in_service_order", func(t *testing.T) {
		svc := &MockTaskService{
			ListTasksFn: func(context.Context) ([]*domain.Task, error) {
				return []*domain.Task{
					{ID: 1, Title: "Buy milk"},
					{ID: 2, Title: "Walk dog", Description: "twice", Done: true},
				}, nil
			},
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/tasks", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[
			{"id":1,"title":"Buy milk","description":"","done":false},
			{"id":2,"title":"Walk dog","description":"twice","done":true}
		]`, rr.Body.String())
	})

	t.Run("empty_list_is_array", func(t *testing.T) {
		svc := &MockTaskService{
			ListTasksFn: func(context.Context) ([]*domain.Task, error) { return nil, nil },
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/tasks", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("service_failure", func(t *testing.T) {
		svc := &MockTaskService{
			ListTasksFn: func(context.Context) ([]*domain.Task, error) { return nil, errors.New("boom") },
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/tasks", "")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Failed to list tasks"}`, rr.Body.String())
	})
}

func TestUpdateTask(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		var gotID int64
		var gotPatch domain.TaskPatch
		svc := &MockTaskService{
			UpdateTaskFn: func(_ context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
				gotID, gotPatch = id, patch
				task := &domain.Task{ID: id, Title: "Buy milk", Description: "2 litres"}
				require.NoError(t, task.Apply(patch))
				return task, nil
			},
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodPut, "/api/tasks/1", `{"done":true}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":1,"title":"Buy milk","description":"2 litres","done":true}`, rr.Body.String())
		assert.Equal(t, int64(1), gotID)
		assert.Nil(t, gotPatch.Title)
		assert.Nil(t, gotPatch.Description)
		require.NotNil(t, gotPatch.Done)
		assert.True(t, *gotPatch.Done)
	})

	t.Run("unknown_id", func(t *testing.T) {
		svc := &MockTaskService{
			UpdateTaskFn: func(context.Context, int64, domain.TaskPatch) (*domain.Task, error) {
				return nil, service.ErrTaskNotFound
			},
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodPut, "/api/tasks/999", `{"done":true}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Task not found"}`, rr.Body.String())
	})

	t.Run("non_integer_id", func(t *testing.T) {
		rr := doRequest(t, newTestRouter(&MockTaskService{}), http.MethodPut, "/api/tasks/abc", `{"done":true}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Task not found"}`, rr.Body.String())
	})

	t.Run("malformed_json", func(t *testing.T) {
		rr := doRequest(t, newTestRouter(&MockTaskService{}), http.MethodPut, "/api/tasks/1", `not json`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid request format"}`, rr.Body.String())
	})

	t.Run("title_too_long", func(t *testing.T) {
		body := `{"title":"` + strings.Repeat("b", 101) + `"}`
		rr := doRequest(t, newTestRouter(&MockTaskService{}), http.MethodPut, "/api/tasks/1", body)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid title: too long"}`, rr.Body.String())
	})

	unknownBodies := []struct {
		name string
		body string
	}{
		{name: "unknown_id_with_long_title", body: `{"title":"` + strings.Repeat("b", 101) + `"}`},
		{name: "unknown_id_with_malformed_json", body: `not json`},
		{name: "unknown_id_with_wrong_type", body: `{"done":"yes"}`},
	}
	for _, tt := range unknownBodies {
		t.Run(tt.name, func(t *testing.T) {
			var gotID int64
			svc := &MockTaskService{
				GetTaskFn: func(_ context.Context, id int64) (*domain.Task, error) {
					gotID = id
					return nil, service.ErrTaskNotFound
				},
				UpdateTaskFn: func(context.Context, int64, domain.TaskPatch) (*domain.Task, error) {
					t.Fatal("update must not run for an unusable body")
					return nil, nil
				},
			}

			rr := doRequest(t, newTestRouter(svc), http.MethodPut, "/api/tasks/999", tt.body)

			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.JSONEq(t, `{"error":"Task not found"}`, rr.Body.String())
			assert.Equal(t, int64(999), gotID)
		})
	}

	t.Run("lookup_failure_with_bad_body", func(t *testing.T) {
		svc := &MockTaskService{
			GetTaskFn: func(context.Context, int64) (*domain.Task, error) {
				return nil, errors.New("connection refused")
			},
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodPut, "/api/tasks/1", `not json`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Failed to update task"}`, rr.Body.String())
	})

	t.Run("null_description_clears_it", func(t *testing.T) {
		var gotPatch domain.TaskPatch
		svc := &MockTaskService{
			UpdateTaskFn: func(_ context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
				gotPatch = patch
				task := &domain.Task{ID: id, Title: "Buy milk", Description: "2 litres"}
				require.NoError(t, task.Apply(patch))
				return task, nil
			},
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodPut, "/api/tasks/1", `{"description":null}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":1,"title":"Buy milk","description":"","done":false}`, rr.Body.String())
		require.NotNil(t, gotPatch.Description)
		assert.Equal(t, "", *gotPatch.Description)
		assert.Nil(t, gotPatch.Title)
		assert.Nil(t, gotPatch.Done)
	})

	t.Run("description_wrong_type", func(t *testing.T) {
		rr := doRequest(t, newTestRouter(&MockTaskService{}), http.MethodPut, "/api/tasks/1", `{"description":7}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid request format"}`, rr.Body.String())
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		var gotID int64
		svc := &MockTaskService{
			DeleteTaskFn: func(_ context.Context, id int64) error {
				gotID = id
				return nil
			},
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodDelete, "/api/tasks/2", "")

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
		assert.Equal(t, int64(2), gotID)
	})

	t.Run("unknown_id", func(t *testing.T) {
		svc := &MockTaskService{
			DeleteTaskFn: func(context.Context, int64) error { return service.ErrTaskNotFound },
		}

		rr := doRequest(t, newTestRouter(svc), http.MethodDelete, "/api/tasks/999", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, map[string]string{"error": "Task not found"}, resp)
	})

	t.Run("negative_id", func(t *testing.T) {
		rr := doRequest(t, newTestRouter(&MockTaskService{}), http.MethodDelete, "/api/tasks/-1", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
