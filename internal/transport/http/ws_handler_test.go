package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dailyquiz-service/internal/app"
	"dailyquiz-service/internal/domain"
	"dailyquiz-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketDailyQuizFlow(t *testing.T) {
	service := app.NewQuizService(
		memory.NewQuestionPool(fixtureQuestions()),
		memory.NewQuizRepository(),
		memory.NewSessionRepository(),
		memory.NewAttemptRepository(),
		memory.NewStreakRepository(),
	)
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?userId=u1&tz=UTC"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial status arrives unprompted.
	msgType, payload := readNext(conn, t, "status")
	if msgType != "status" {
		t.Fatalf("expected status, got %s", msgType)
	}
	quizPayload, ok := payload["todaysQuiz"].(map[string]any)
	if !ok {
		t.Fatalf("status payload missing todaysQuiz: %v", payload)
	}
	rawIDs, ok := quizPayload["questionIds"].([]any)
	if !ok || len(rawIDs) != 5 {
		t.Fatalf("expected 5 question ids, got %v", quizPayload["questionIds"])
	}

	// Start a session for today's quiz.
	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	msgType, payload = readNext(conn, t, "session")
	sessionID, _ := payload["id"].(string)
	if sessionID == "" {
		t.Fatalf("session payload missing id: %v", payload)
	}

	// Answer every question correctly.
	answers := answersByID()
	for _, raw := range rawIDs {
		questionID := raw.(string)
		err := conn.WriteJSON(map[string]any{
			"type": "answer",
			"payload": map[string]any{
				"sessionId":  sessionID,
				"questionId": questionID,
				"answer":     answers[questionID],
			},
		})
		if err != nil {
			t.Fatalf("write answer: %v", err)
		}
		if typ, _ := readNext(conn, t, "session"); typ != "session" {
			t.Fatalf("expected session update, got %s", typ)
		}
	}

	// Complete and check the result.
	err = conn.WriteJSON(map[string]any{
		"type":    "complete",
		"payload": map[string]any{"sessionId": sessionID},
	})
	if err != nil {
		t.Fatalf("write complete: %v", err)
	}
	_, result := readNext(conn, t, "result")
	if score, _ := result["score"].(float64); score != 100 {
		t.Fatalf("expected score 100, got %v", result["score"])
	}
	if updated, _ := result["streakUpdated"].(bool); !updated {
		t.Fatalf("expected streakUpdated on perfect run")
	}
}

func TestWebSocketRejectsMissingUser(t *testing.T) {
	service := app.NewQuizService(
		memory.NewQuestionPool(fixtureQuestions()),
		memory.NewQuizRepository(),
		memory.NewSessionRepository(),
		memory.NewAttemptRepository(),
		memory.NewStreakRepository(),
	)
	wsHandler := NewWSHandler(service)

	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "?tz=UTC"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected handshake failure without userId")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %+v", resp)
	}
}

func TestStatusEndpoint(t *testing.T) {
	service := app.NewQuizService(
		memory.NewQuestionPool(fixtureQuestions()),
		memory.NewQuizRepository(),
		memory.NewSessionRepository(),
		memory.NewAttemptRepository(),
		memory.NewStreakRepository(),
	)
	wsHandler := NewWSHandler(service)

	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeStatus))
	defer server.Close()

	resp, err := http.Get(server.URL + "?userId=u1&tz=UTC")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json, got %s", ct)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (payload %v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func answersByID() map[string]string {
	answers := make(map[string]string)
	for _, q := range fixtureQuestions() {
		answers[q.ID] = q.CorrectAnswer
	}
	return answers
}

func fixtureQuestions() []domain.Question {
	approved := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Question{
		{ID: "e1", Prompt: "easy one", Choices: []string{"A", "B"}, CorrectAnswer: "A", Difficulty: domain.DifficultyEasy, ApprovedAt: approved},
		{ID: "e2", Prompt: "easy two", Choices: []string{"A", "B"}, CorrectAnswer: "B", Difficulty: domain.DifficultyEasy, ApprovedAt: approved},
		{ID: "m1", Prompt: "medium one", Choices: []string{"A", "B"}, CorrectAnswer: "A", Difficulty: domain.DifficultyMedium, ApprovedAt: approved},
		{ID: "m2", Prompt: "medium two", Choices: []string{"A", "B"}, CorrectAnswer: "B", Difficulty: domain.DifficultyMedium, ApprovedAt: approved},
		{ID: "h1", Prompt: "hard one", Choices: []string{"A", "B"}, CorrectAnswer: "A", Difficulty: domain.DifficultyHard, ApprovedAt: approved},
	}
}
