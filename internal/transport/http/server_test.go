package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"resident-lockdown/internal/app"
	"resident-lockdown/internal/app/apptest"
	"resident-lockdown/internal/domain"
	"resident-lockdown/internal/infra/memory"
)

const testToken = "secret"

func newTestServer(t *testing.T) (*httptest.Server, *app.Game) {
	t.Helper()
	sched := apptest.NewManualScheduler()
	hub := NewHub(256)
	game := app.NewGame(memory.NewQuestionBank(memory.NewDefaultQuestionLoader()), hub, app.Options{
		AfterFunc: sched.AfterFunc,
		Now:       sched.Now,
		Rand:      apptest.NewSequenceRand(0.5),
	})
	srv := httptest.NewServer(NewServer(game, hub, Options{AdminToken: testToken}).Routes())
	t.Cleanup(srv.Close)
	return srv, game
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readUntil skips unrelated broadcasts until a message of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		_ = conn.SetReadDeadline(deadline)
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}
		if msg.Type == want {
			return msg.Payload
		}
	}
}

func TestPlayerFlowOverWebSocket(t *testing.T) {
	srv, game := newTestServer(t)

	player := dial(t, srv, "/ws")
	readUntil(t, player, "gameState")
	send(t, player, "register", map[string]any{"name": "  alice "})

	var reg domain.Registered
	if err := json.Unmarshal(readUntil(t, player, "registered"), &reg); err != nil {
		t.Fatalf("decode registered: %v", err)
	}
	if reg.PlayerID == "" || reg.Player.Name != "alice" {
		t.Fatalf("unexpected registration %+v", reg)
	}

	admin := dial(t, srv, "/admin/ws?token="+testToken)
	readUntil(t, admin, "adminData")
	send(t, admin, "startGame", nil)

	raw := readUntil(t, player, "newQuestion")
	if strings.Contains(string(raw), `"correct"`) || strings.Contains(string(raw), `"explanation"`) {
		t.Fatalf("question leaked its answer: %s", raw)
	}
	var q domain.NewQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		t.Fatalf("decode question: %v", err)
	}
	if q.QuestionNumber != 1 || q.Timer != 30 || q.Question.ID != "1" {
		t.Fatalf("unexpected question %+v", q)
	}

	send(t, player, "submitAnswer", map[string]any{"answerIndex": 1})
	var res domain.AnswerResult
	if err := json.Unmarshal(readUntil(t, player, "answerResult"), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !res.Correct || res.Score != 50 || res.Explanation == "" {
		t.Fatalf("unexpected result %+v", res)
	}

	p, ok := game.Player(reg.PlayerID)
	if !ok || p.Score != 50 {
		t.Fatalf("unexpected player %+v", p)
	}

	player.Close()
	deadline := time.Now().Add(2 * time.Second)
	for {
		p, _ := game.Player(reg.PlayerID)
		if p.Status == domain.StatusDisconnected {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("player not marked disconnected, status %s", p.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestResumeReattachesPlayer(t *testing.T) {
	srv, game := newTestServer(t)
	p, err := game.Register("bob", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	conn := dial(t, srv, "/ws")
	send(t, conn, "resume", map[string]any{"playerId": p.ID})
	readUntil(t, conn, "registered")

	got, _ := game.Player(p.ID)
	if got.ChannelRef == "" || got.Status != domain.StatusActive {
		t.Fatalf("resume did not attach: %+v", got)
	}

	send(t, conn, "resume", map[string]any{"playerId": p.ID})
	readUntil(t, conn, "error")
}

func TestPlayerValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "/ws")

	send(t, conn, "submitAnswer", map[string]any{"answerIndex": 0})
	var msg domain.ErrorMessage
	if err := json.Unmarshal(readUntil(t, conn, "error"), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Message != "not registered" {
		t.Fatalf("unexpected error %q", msg.Message)
	}

	send(t, conn, "submitAnswer", map[string]any{})
	if err := json.Unmarshal(readUntil(t, conn, "error"), &msg); err != nil || msg.Message != "invalid answer payload" {
		t.Fatalf("unexpected error %q (%v)", msg.Message, err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := json.Unmarshal(readUntil(t, conn, "error"), &msg); err != nil || msg.Message != "invalid message" {
		t.Fatalf("unexpected error %q (%v)", msg.Message, err)
	}

	send(t, conn, "dance", nil)
	if err := json.Unmarshal(readUntil(t, conn, "error"), &msg); err != nil || msg.Message != "unsupported message type" {
		t.Fatalf("unexpected error %q (%v)", msg.Message, err)
	}
}

func TestAdminCommands(t *testing.T) {
	srv, game := newTestServer(t)
	admin := dial(t, srv, "/admin/ws?token="+testToken)
	readUntil(t, admin, "adminData")

	send(t, admin, "startGame", nil)
	var adminErr domain.AdminError
	if err := json.Unmarshal(readUntil(t, admin, "adminError"), &adminErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if adminErr.Message != domain.ErrNoPlayers.Error() {
		t.Fatalf("unexpected admin error %q", adminErr.Message)
	}

	send(t, admin, "addBots", map[string]any{"count": 3})
	var snap domain.AdminSnapshot
	if err := json.Unmarshal(readUntil(t, admin, "adminData"), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Players) != 3 || len(snap.Questions["level1"]) != 10 || snap.Settings.Level1Timer != 30 {
		t.Fatalf("unexpected admin data %+v", snap.Settings)
	}

	send(t, admin, "updateSettings", map[string]any{"level1Timer": 200})
	readUntil(t, admin, "adminError")

	send(t, admin, "addQuestion", map[string]any{
		"level":    2,
		"question": map[string]any{"question": "2+2?", "options": []string{"3", "4"}, "correct": 1},
	})
	var added domain.QuestionAdded
	if err := json.Unmarshal(readUntil(t, admin, "adminQuestionAdded"), &added); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if added.Level != 2 || added.Question.ID == "" {
		t.Fatalf("unexpected question added %+v", added)
	}

	send(t, admin, "deleteQuestion", map[string]any{"level": 2, "id": added.Question.ID})
	var deleted domain.QuestionDeleted
	if err := json.Unmarshal(readUntil(t, admin, "adminQuestionDeleted"), &deleted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if deleted.ID != added.Question.ID {
		t.Fatalf("unexpected question deleted %+v", deleted)
	}

	send(t, admin, "addQuestion", map[string]any{
		"level":    1,
		"question": map[string]any{"question": "3+3?", "options": []string{"6", "7"}, "correct": 0},
	})
	if err := json.Unmarshal(readUntil(t, admin, "adminQuestionAdded"), &added); err != nil {
		t.Fatalf("decode: %v", err)
	}
	send(t, admin, "deleteQuestion", map[string]any{"level": 1, "questionId": added.Question.ID})
	readUntil(t, admin, "adminQuestionDeleted")
	readUntil(t, admin, "adminData")

	send(t, admin, "getAdminSnapshot", nil)
	if err := json.Unmarshal(readUntil(t, admin, "adminData"), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Questions["level1"]) != 10 || len(snap.Questions["level2"]) != 5 {
		t.Fatalf("unexpected question banks after edits: %d/%d", len(snap.Questions["level1"]), len(snap.Questions["level2"]))
	}

	send(t, admin, "exportResults", nil)
	var rows []domain.ResultRow
	if err := json.Unmarshal(readUntil(t, admin, "adminExportData"), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 3 || rows[0].EliminationReason != "N/A" {
		t.Fatalf("unexpected export %+v", rows)
	}

	send(t, admin, "removeBots", nil)
	readUntil(t, admin, "adminData")
	if status := game.Status(); status.PlayerCount != 0 {
		t.Fatalf("expected bots removed, got %+v", status)
	}
}

func TestAdminRequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/ws?token=wrong"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}
}

func TestRESTRoutes(t *testing.T) {
	srv, game := newTestServer(t)
	if _, err := game.Register("carol", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		path        string
		status      int
		contentType string
		body        string
	}{
		{"/healthz", http.StatusOK, "text/plain; charset=utf-8", "Ok\n"},
		{"/api/status", http.StatusOK, "application/json", `"playerCount":1`},
		{"/api/leaderboard", http.StatusOK, "application/json", `"name":"carol"`},
		{"/api/join-qr", http.StatusOK, "image/png", "PNG"},
		{"/api/admin/export.xlsx", http.StatusUnauthorized, "", ""},
		{"/api/admin/export.xlsx?token=" + testToken, http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ""},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.path)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
			if tc.contentType != "" && resp.Header.Get("Content-Type") != tc.contentType {
				t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
			}
			if !strings.Contains(string(body), tc.body) {
				t.Fatalf("body %q does not contain %q", body, tc.body)
			}
		})
	}
}
