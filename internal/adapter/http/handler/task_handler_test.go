package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskapi/internal/adapter/database/sqlite/repository"
	"taskapi/internal/core/domain"
	"taskapi/internal/core/model/response"
	"taskapi/internal/core/service"
	"taskapi/pkg/test"
)

type TaskHandlerSuite struct {
	suite.Suite
	Router *gin.Engine
	Setup  *test.Setup
}

func (s *TaskHandlerSuite) SetupTest() {
	s.Setup = test.SetupTest(s.T())

	repo := repository.NewTaskRepository(s.Setup.DB, nil)
	svc := service.NewTaskService(repo, nil, nil)
	profile := domain.ClassicProfile()

	s.Router = setupTestRouter(
		NewTaskHandler(svc, profile, nil),
		NewHealthHandler(svc),
	)
}

func (s *TaskHandlerSuite) TearDownTest() {
	test.TeardownTest(s.T(), s.Setup)
}

func TestTaskHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskHandlerSuite))
}

func setupTestRouter(taskHandler *TaskHandler, healthHandler *HealthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler.Check)

	tasks := router.Group("/tasks")
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PATCH("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	return router
}

func (s *TaskHandlerSuite) request(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != "" {
		reader = strings.NewReader(body)
	}

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	s.Router.ServeHTTP(rr, req)

	return rr
}

func decodeTask(rr *httptest.ResponseRecorder) response.TaskResponse {
	var task response.TaskResponse

	json.Unmarshal(rr.Body.Bytes(), &task)

	return task
}

func decodeError(rr *httptest.ResponseRecorder) response.ErrorResponse {
	var errResp response.ErrorResponse

	json.Unmarshal(rr.Body.Bytes(), &errResp)

	return errResp
}

func errorFields(errResp response.ErrorResponse) []string {
	fields := make([]string, 0, len(errResp.Error.Errors))

	for _, e := range errResp.Error.Errors {
		fields = append(fields, e.Field)
	}

	return fields
}

func (s *TaskHandlerSuite) TestCreateTask() {
	rr := s.request("POST", "/tasks", `{"title": "Buy milk", "description": "2 liters"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(rr.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

	task := decodeTask(rr)

	Expect(task.Title).To(Equal("Buy milk"))
	Expect(*task.Description).To(Equal("2 liters"))
	Expect(task.Completed).To(BeFalse())
	Expect(task.ID).To(BeNumerically(">", 0))
	Expect(task.CreatedAt.IsZero()).To(BeFalse())
}

func (s *TaskHandlerSuite) TestCreateTaskValidationError() {
	rr := s.request("POST", "/tasks", `{"title": "   "}`)

	Expect(rr.Code).To(Equal(http.StatusUnprocessableEntity))

	errResp := decodeError(rr)

	Expect(errResp.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(errorFields(errResp)).To(ContainElement("title"))
}

func (s *TaskHandlerSuite) TestCreateTaskMalformedBody() {
	rr := s.request("POST", "/tasks", `{"title": `)

	Expect(rr.Code).To(Equal(http.StatusUnprocessableEntity))
	Expect(errorFields(decodeError(rr))).To(ContainElement("body"))
}

func (s *TaskHandlerSuite) TestCreateTaskRejectsExtendedFields() {
	rr := s.request("POST", "/tasks", `{"title": "t", "priority": "high"}`)

	Expect(rr.Code).To(Equal(http.StatusUnprocessableEntity))
	Expect(errorFields(decodeError(rr))).To(ContainElement("priority"))
}

func (s *TaskHandlerSuite) TestGetTask() {
	created := decodeTask(s.request("POST", "/tasks", `{"title": "Find me"}`))

	rr := s.request("GET", fmt.Sprintf("/tasks/%v", created.ID), "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decodeTask(rr).Title).To(Equal("Find me"))
}

func (s *TaskHandlerSuite) TestGetTaskNotFound() {
	rr := s.request("GET", "/tasks/9999", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(decodeError(rr).Error.Code).To(Equal("NOT_FOUND"))
}

func (s *TaskHandlerSuite) TestGetTaskInvalidID() {
	rr := s.request("GET", "/tasks/not-a-number", "")

	Expect(rr.Code).To(Equal(http.StatusUnprocessableEntity))
	Expect(errorFields(decodeError(rr))).To(ContainElement("id"))
}

func (s *TaskHandlerSuite) TestGetTaskZeroIDMisses() {
	rr := s.request("GET", "/tasks/0", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(decodeError(rr).Error.Code).To(Equal("NOT_FOUND"))
}

func (s *TaskHandlerSuite) TestListTasks() {
	s.request("POST", "/tasks", `{"title": "one"}`)
	s.request("POST", "/tasks", `{"title": "two"}`)

	rr := s.request("GET", "/tasks", "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	var tasks []response.TaskResponse
	json.Unmarshal(rr.Body.Bytes(), &tasks)

	Expect(len(tasks)).To(Equal(2))
	Expect(tasks[0].Title).To(Equal("one"))
}

func (s *TaskHandlerSuite) TestListTasksEmpty() {
	rr := s.request("GET", "/tasks", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(strings.TrimSpace(rr.Body.String())).To(Equal("[]"))
}

func (s *TaskHandlerSuite) TestListTasksPaginationAndFilter() {
	for i := 1; i <= 5; i++ {
		s.request("POST", "/tasks", fmt.Sprintf(`{"title": "task %d"}`, i))
	}

	s.request("POST", "/tasks", `{"title": "finished", "completed": true}`)

	rr := s.request("GET", "/tasks?skip=1&limit=2", "")

	var page []response.TaskResponse
	json.Unmarshal(rr.Body.Bytes(), &page)

	Expect(len(page)).To(Equal(2))
	Expect(page[0].Title).To(Equal("task 2"))

	rr = s.request("GET", "/tasks?completed=true", "")

	var completed []response.TaskResponse
	json.Unmarshal(rr.Body.Bytes(), &completed)

	Expect(len(completed)).To(Equal(1))
	Expect(completed[0].Title).To(Equal("finished"))
}

func (s *TaskHandlerSuite) TestListTasksRejectsBadQuery() {
	for _, path := range []string{
		"/tasks?limit=0",
		"/tasks?limit=1001",
		"/tasks?skip=-1",
		"/tasks?completed=maybe",
	} {
		rr := s.request("GET", path, "")

		Expect(rr.Code).To(Equal(http.StatusUnprocessableEntity))
	}
}

func (s *TaskHandlerSuite) TestUpdateTaskPartial() {
	created := decodeTask(s.request("POST", "/tasks", `{"title": "Original"}`))

	rr := s.request("PATCH", fmt.Sprintf("/tasks/%v", created.ID), `{"completed": true}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	updated := decodeTask(rr)

	Expect(updated.Completed).To(BeTrue())
	Expect(updated.Title).To(Equal("Original"))
}

func (s *TaskHandlerSuite) TestUpdateTaskNotFound() {
	rr := s.request("PATCH", "/tasks/9999", `{"title": "ghost"}`)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TaskHandlerSuite) TestUpdateTaskNullTitle() {
	created := decodeTask(s.request("POST", "/tasks", `{"title": "keep"}`))

	rr := s.request("PATCH", fmt.Sprintf("/tasks/%v", created.ID), `{"title": null}`)

	Expect(rr.Code).To(Equal(http.StatusUnprocessableEntity))
	Expect(errorFields(decodeError(rr))).To(ContainElement("title"))
}

func (s *TaskHandlerSuite) TestDeleteTask() {
	created := decodeTask(s.request("POST", "/tasks", `{"title": "doomed"}`))
	path := fmt.Sprintf("/tasks/%v", created.ID)

	rr := s.request("DELETE", path, "")

	Expect(rr.Code).To(Equal(http.StatusNoContent))
	Expect(rr.Body.Len()).To(Equal(0))

	rr = s.request("DELETE", path, "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TaskHandlerSuite) TestTaskLifecycle() {
	created := decodeTask(s.request("POST", "/tasks", `{"title": "Walk the dog"}`))
	Expect(created.Completed).To(BeFalse())

	path := fmt.Sprintf("/tasks/%v", created.ID)

	updated := decodeTask(s.request("PATCH", path, `{"completed": true}`))
	Expect(updated.Completed).To(BeTrue())
	Expect(updated.Title).To(Equal("Walk the dog"))

	rr := s.request("DELETE", path, "")
	Expect(rr.Code).To(Equal(http.StatusNoContent))

	rr = s.request("GET", path, "")
	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TaskHandlerSuite) TestHealth() {
	rr := s.request("GET", "/health", "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	var health response.HealthResponse
	json.Unmarshal(rr.Body.Bytes(), &health)

	Expect(health.Status).To(Equal("healthy"))
	Expect(health.Database).To(Equal("connected"))
}
