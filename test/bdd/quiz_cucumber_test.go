//go:build cucumber

package bdd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/app"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/repository/memory"
)

// TestQuizScenarios runs the quiz feature scenarios against an in-memory API.
func TestQuizScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "features", "quiz.feature")
	suite := godog.TestSuite{
		Name:                "quiz",
		ScenarioInitializer: InitializeQuizScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeQuizScenario wires steps for the quiz feature.
func InitializeQuizScenario(ctx *godog.ScenarioContext) {
	state := &quizScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a fresh quiz API$`, state.givenAFreshQuizAPI)
	ctx.Step(`^a quiz titled "([^"]+)"$`, state.givenAQuizTitled)
	ctx.Step(`^an answer titled "([^"]+)" in quiz (\d+)$`, state.givenAnAnswerTitled)
	ctx.Step(`^I send "([A-Z]+)" to "([^"]+)" with body:$`, state.whenISendWithBody)
	ctx.Step(`^I send "([A-Z]+)" to "([^"]+)"$`, state.whenISend)
	ctx.Step(`^the response status is (\d+)$`, state.thenResponseStatus)
	ctx.Step(`^the response error is null$`, state.thenResponseErrorIsNull)
	ctx.Step(`^the response error contains "([^"]+)"$`, state.thenResponseErrorContains)
	ctx.Step(`^the response data field "([^"]+)" equals (.+)$`, state.thenResponseDataFieldEquals)
	ctx.Step(`^the response data is a list of (\d+) items$`, state.thenResponseDataIsAList)
}

type envelope struct {
	Success int             `json:"success"`
	Errors  *string         `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

// quizScenarioState holds scenario state for the quiz feature.
type quizScenarioState struct {
	engine   *gin.Engine
	status   int
	response envelope
}

// reset clears scenario state.
func (s *quizScenarioState) reset() {
	s.engine = nil
	s.status = 0
	s.response = envelope{}
}

// givenAFreshQuizAPI builds the router over an empty in-memory store.
func (s *quizScenarioState) givenAFreshQuizAPI() error {
	cfg := &config.Config{GinMode: gin.TestMode, StorageDriver: config.StorageMemory}
	s.engine = app.NewEngine(cfg, zerolog.Nop(), app.Deps{
		Storage: app.MemoryStorage(memory.NewStore()),
	})
	return nil
}

func (s *quizScenarioState) givenAQuizTitled(title string) error {
	body := fmt.Sprintf(`{"title": %q, "description": "D", "status": "draft"}`, title)
	if err := s.send(http.MethodPost, "/quizzes", body); err != nil {
		return err
	}
	return s.thenResponseStatus(http.StatusOK)
}

func (s *quizScenarioState) givenAnAnswerTitled(title string, quizID int) error {
	body := fmt.Sprintf(`{"title": %q}`, title)
	if err := s.send(http.MethodPost, fmt.Sprintf("/quiz/%d/answers", quizID), body); err != nil {
		return err
	}
	return s.thenResponseStatus(http.StatusOK)
}

func (s *quizScenarioState) whenISendWithBody(method, path string, body *godog.DocString) error {
	return s.send(method, path, body.Content)
}

func (s *quizScenarioState) whenISend(method, path string) error {
	return s.send(method, path, "")
}

// send issues a request and decodes the envelope.
func (s *quizScenarioState) send(method, path, body string) error {
	if s.engine == nil {
		return fmt.Errorf("API not initialized")
	}
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	s.engine.ServeHTTP(recorder, req)

	s.status = recorder.Code
	s.response = envelope{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &s.response); err != nil {
		return fmt.Errorf("decode envelope %q: %w", recorder.Body.String(), err)
	}
	if s.response.Success != s.status {
		return fmt.Errorf("envelope success %d does not match status %d", s.response.Success, s.status)
	}
	return nil
}

// thenResponseStatus asserts the HTTP response status code.
func (s *quizScenarioState) thenResponseStatus(expected int) error {
	if s.status != expected {
		return fmt.Errorf("expected status %d, got %d (errors: %v)", expected, s.status, s.errorText())
	}
	return nil
}

func (s *quizScenarioState) thenResponseErrorIsNull() error {
	if s.response.Errors != nil {
		return fmt.Errorf("expected null errors, got %q", *s.response.Errors)
	}
	return nil
}

func (s *quizScenarioState) thenResponseErrorContains(text string) error {
	if !strings.Contains(s.errorText(), text) {
		return fmt.Errorf("expected error containing %q, got %q", text, s.errorText())
	}
	return nil
}

// thenResponseDataFieldEquals compares one data field against a JSON literal.
func (s *quizScenarioState) thenResponseDataFieldEquals(field, literal string) error {
	var data map[string]any
	if err := json.Unmarshal(s.response.Data, &data); err != nil {
		return fmt.Errorf("data is not an object: %s", s.response.Data)
	}
	var want any
	if err := json.Unmarshal([]byte(literal), &want); err != nil {
		return fmt.Errorf("invalid JSON literal %q: %w", literal, err)
	}
	got, ok := data[field]
	if !ok {
		return fmt.Errorf("data has no field %q", field)
	}
	if !reflect.DeepEqual(got, want) {
		return fmt.Errorf("expected %s=%v, got %v", field, want, got)
	}
	return nil
}

func (s *quizScenarioState) thenResponseDataIsAList(n int) error {
	var items []json.RawMessage
	if err := json.Unmarshal(s.response.Data, &items); err != nil || items == nil {
		return fmt.Errorf("data is not a list: %s", s.response.Data)
	}
	if len(items) != n {
		return fmt.Errorf("expected %d items, got %d", n, len(items))
	}
	return nil
}

func (s *quizScenarioState) errorText() string {
	if s.response.Errors == nil {
		return ""
	}
	return *s.response.Errors
}
