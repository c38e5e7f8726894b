package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"resident-lockdown/internal/domain"
)

var (
	errInvalidPayload = errors.New("invalid payload")
	errUnsupported    = errors.New("unsupported command")
)

type addBotsPayload struct {
	Count int `json:"count"`
}

type addQuestionPayload struct {
	Level    int             `json:"level"`
	Question domain.Question `json:"question"`
}

type deleteQuestionPayload struct {
	Level      int    `json:"level"`
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`
}

func (p deleteQuestionPayload) id() string {
	if p.ID != "" {
		return p.ID
	}
	return p.QuestionID
}

// serveAdminWS runs an operator connection. It receives every broadcast like a player
// connection, plus replies to its own commands.
func (s *Server) serveAdminWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	c := s.hub.attach()
	s.hub.SendTo(c.id, s.game.Snapshot())
	s.sendAdminData(ctx, c.id)

	s.session(conn, c, func(in inboundMessage) {
		s.handleAdmin(ctx, c.id, in)
	})
}

func (s *Server) handleAdmin(ctx context.Context, ref string, in inboundMessage) {
	var err error
	switch in.Type {
	case "startGame":
		err = s.admin.StartGame(ctx)
	case "resetGame":
		s.admin.ResetGame()
	case "startLevel2":
		err = s.admin.StartLevel2(ctx)
	case "updateSettings":
		var u domain.SettingsUpdate
		if decodePayload(in.Payload, &u) != nil {
			err = errInvalidPayload
			break
		}
		_, err = s.admin.UpdateSettings(u)
	case "addBots":
		var p addBotsPayload
		if decodePayload(in.Payload, &p) != nil {
			err = errInvalidPayload
			break
		}
		_, err = s.admin.AddBots(p.Count)
	case "removeBots":
		_, err = s.admin.RemoveBots()
	case "addQuestion":
		var p addQuestionPayload
		if decodePayload(in.Payload, &p) != nil {
			err = errInvalidPayload
			break
		}
		var q domain.Question
		if q, err = s.admin.AddQuestion(ctx, p.Level, p.Question); err == nil {
			s.hub.SendTo(ref, domain.QuestionAdded{Level: p.Level, Question: q})
		}
	case "deleteQuestion":
		var p deleteQuestionPayload
		if decodePayload(in.Payload, &p) != nil {
			err = errInvalidPayload
			break
		}
		id := p.id()
		if err = s.admin.DeleteQuestion(ctx, p.Level, id); err == nil {
			s.hub.SendTo(ref, domain.QuestionDeleted{Level: p.Level, ID: id})
		}
	case "getAdminSnapshot", "getAdminData":
	case "exportResults":
		s.hub.SendTo(ref, domain.ExportData(s.admin.ExportResults()))
		return
	default:
		err = errUnsupported
	}

	if err != nil {
		s.hub.SendTo(ref, domain.AdminError{Message: err.Error()})
		return
	}
	s.sendAdminData(ctx, ref)
}

func (s *Server) sendAdminData(ctx context.Context, ref string) {
	snap, err := s.admin.Snapshot(ctx)
	if err != nil {
		s.hub.SendTo(ref, domain.AdminError{Message: err.Error()})
		return
	}
	s.hub.SendTo(ref, domain.AdminData(snap))
}
