package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tasktrack/internal/errors"
	"tasktrack/internal/handler"
	"tasktrack/internal/middleware"
	"tasktrack/internal/model"
	"tasktrack/internal/router"
	"tasktrack/internal/service"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) IssueSession(ctx context.Context, user *model.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) RevokeSession(ctx context.Context, userID uuid.UUID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

// MockTaskService is a mock implementation of service.TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, ownerID uuid.UUID, text string) (*model.Task, error) {
	args := m.Called(ctx, ownerID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, ownerID, id uuid.UUID, patch service.UpdateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, ownerID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func newServer(users *MockUserService, tasks *MockTaskService) *echo.Echo {
	e := echo.New()
	router.Register(e, handler.NewUserHandler(users), handler.NewTaskHandler(tasks), users)
	return e
}

func do(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(middleware.HeaderAuth, token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) (data json.RawMessage, errResp *errors.ErrorResponse) {
	t.Helper()
	var body struct {
		Data  json.RawMessage       `json:"data"`
		Error *errors.ErrorResponse `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data, body.Error
}

func TestRegisterEndToEnd(t *testing.T) {
	users := new(MockUserService)
	tasks := new(MockTaskService)
	e := newServer(users, tasks)

	created := &model.User{ID: uuid.New(), Email: "c@c.com", PasswordHash: "$2a$10$x"}
	users.On("Register", mock.Anything, "c@c.com", "123456").Return(created, nil).Once()
	users.On("IssueSession", mock.Anything, created).Return("session-token", nil).Once()

	rec := do(e, http.MethodPost, "/users", "", `{"email":"c@c.com","password":"123456"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session-token", rec.Header().Get(middleware.HeaderAuth))

	data, errResp := decode(t, rec)
	assert.Nil(t, errResp)

	var public model.PublicUser
	assert.NoError(t, json.Unmarshal(data, &public))
	assert.Equal(t, "c@c.com", public.Email)
	// Only id and email ever leave the service.
	var raw map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 2)

	// Registering the same email again fails with 400.
	users.On("Register", mock.Anything, "c@c.com", "123456").Return(nil, errors.ErrDuplicateEmail).Once()
	rec = do(e, http.MethodPost, "/users", "", `{"email":"c@c.com","password":"123456"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, errResp = decode(t, rec)
	assert.NotNil(t, errResp)
	assert.Equal(t, "DUPLICATE_EMAIL", errResp.Code)

	users.AssertExpectations(t)
}

func TestLoginSetsTokenHeader(t *testing.T) {
	users := new(MockUserService)
	e := newServer(users, new(MockTaskService))

	user := &model.User{ID: uuid.New(), Email: "c@c.com"}
	users.On("Authenticate", mock.Anything, "c@c.com", "123456").Return(user, nil)
	users.On("IssueSession", mock.Anything, user).Return("login-token", nil)

	rec := do(e, http.MethodPost, "/users/login", "", `{"email":"c@c.com","password":"123456"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "login-token", rec.Header().Get(middleware.HeaderAuth))
}

func TestLoginGenericFailure(t *testing.T) {
	users := new(MockUserService)
	e := newServer(users, new(MockTaskService))

	users.On("Authenticate", mock.Anything, "c@c.com", "wrong").Return(nil, errors.ErrInvalidCredentials)

	rec := do(e, http.MethodPost, "/users/login", "", `{"email":"c@c.com","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, errResp := decode(t, rec)
	assert.Equal(t, "INVALID_CREDENTIALS", errResp.Code)
}

func TestMeAndLogout(t *testing.T) {
	users := new(MockUserService)
	e := newServer(users, new(MockTaskService))

	user := &model.User{ID: uuid.New(), Email: "me@example.com"}
	users.On("ResolveToken", mock.Anything, "live-token").Return(user, nil)

	rec := do(e, http.MethodGet, "/users/me", "live-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	data, errResp := decode(t, rec)
	assert.Nil(t, errResp)

	var public model.PublicUser
	assert.NoError(t, json.Unmarshal(data, &public))
	assert.Equal(t, "me@example.com", public.Email)

	// Logout revokes exactly the token this request presented.
	users.On("RevokeSession", mock.Anything, user.ID, "live-token").Return(nil).Once()
	rec = do(e, http.MethodDelete, "/users/me/token", "live-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{},"error":null}`, rec.Body.String())

	users.AssertExpectations(t)
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	users := new(MockUserService)
	e := newServer(users, new(MockTaskService))

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodDelete, "/users/me/token"},
		{http.MethodGet, "/todos"},
		{http.MethodPost, "/todos"},
		{http.MethodGet, "/todos/" + uuid.NewString()},
	} {
		rec := do(e, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestTodoRoutes(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "owner@example.com"}

	setup := func() (*MockUserService, *MockTaskService, *echo.Echo) {
		users := new(MockUserService)
		tasks := new(MockTaskService)
		users.On("ResolveToken", mock.Anything, "live-token").Return(user, nil)
		return users, tasks, newServer(users, tasks)
	}

	t.Run("create rejects empty text", func(t *testing.T) {
		_, tasks, e := setup()
		tasks.On("Create", mock.Anything, user.ID, "   ").Return(nil, errors.ErrEmptyText)

		rec := do(e, http.MethodPost, "/todos", "live-token", `{"text":"   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		_, errResp := decode(t, rec)
		assert.Equal(t, "EMPTY_TEXT", errResp.Code)
	})

	t.Run("create returns the new task", func(t *testing.T) {
		_, tasks, e := setup()
		created := &model.Task{ID: uuid.New(), Text: "Buy milk", OwnerID: user.ID}
		tasks.On("Create", mock.Anything, user.ID, "Buy milk").Return(created, nil)

		rec := do(e, http.MethodPost, "/todos", "live-token", `{"text":"Buy milk"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		data, errResp := decode(t, rec)
		assert.Nil(t, errResp)
		var task model.Task
		assert.NoError(t, json.Unmarshal(data, &task))
		assert.Equal(t, "Buy milk", task.Text)
		assert.False(t, task.IsCompleted)
		assert.Zero(t, task.CompletedDate)
	})

	t.Run("list is scoped to the caller", func(t *testing.T) {
		_, tasks, e := setup()
		tasks.On("List", mock.Anything, user.ID).Return([]model.Task{
			{ID: uuid.New(), Text: "mine", OwnerID: user.ID},
		}, nil)

		rec := do(e, http.MethodGet, "/todos", "live-token", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		data, _ := decode(t, rec)
		var list []model.Task
		assert.NoError(t, json.Unmarshal(data, &list))
		assert.Len(t, list, 1)
	})

	t.Run("malformed id is not found, not bad request", func(t *testing.T) {
		_, _, e := setup()

		rec := do(e, http.MethodGet, "/todos/not-a-uuid", "live-token", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		_, errResp := decode(t, rec)
		assert.Equal(t, "TASK_NOT_FOUND", errResp.Code)
	})

	t.Run("cross-owner get is not found", func(t *testing.T) {
		_, tasks, e := setup()
		otherTask := uuid.New()
		tasks.On("Get", mock.Anything, user.ID, otherTask).Return(nil, errors.ErrTaskNotFound)

		rec := do(e, http.MethodGet, "/todos/"+otherTask.String(), "live-token", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("patch forwards text and completion", func(t *testing.T) {
		_, tasks, e := setup()
		id := uuid.New()
		text := "updated"
		updated := &model.Task{ID: id, Text: text, OwnerID: user.ID, IsCompleted: true, CompletedDate: 1700000000000}
		tasks.On("Update", mock.Anything, user.ID, id, service.UpdateTaskInput{Text: &text, IsCompleted: true}).
			Return(updated, nil)

		rec := do(e, http.MethodPatch, "/todos/"+id.String(), "live-token", `{"text":"updated","isCompleted":true}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		data, _ := decode(t, rec)
		var task model.Task
		assert.NoError(t, json.Unmarshal(data, &task))
		assert.True(t, task.IsCompleted)
		assert.NotZero(t, task.CompletedDate)
	})

	t.Run("delete returns prior state and then 404", func(t *testing.T) {
		_, tasks, e := setup()
		id := uuid.New()
		prior := &model.Task{ID: id, Text: "gone", OwnerID: user.ID}
		tasks.On("Delete", mock.Anything, user.ID, id).Return(prior, nil).Once()
		tasks.On("Delete", mock.Anything, user.ID, id).Return(nil, errors.ErrTaskNotFound)

		rec := do(e, http.MethodDelete, "/todos/"+id.String(), "live-token", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		data, _ := decode(t, rec)
		var task model.Task
		assert.NoError(t, json.Unmarshal(data, &task))
		assert.Equal(t, "gone", task.Text)

		rec = do(e, http.MethodDelete, "/todos/"+id.String(), "live-token", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
