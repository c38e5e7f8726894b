package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"resident-lockdown/internal/domain"
)

type registerPayload struct {
	Name string `json:"name"`
}

type resumePayload struct {
	PlayerID string `json:"playerId"`
}

type answerPayload struct {
	AnswerIndex *int `json:"answerIndex"`
}

// servePlayerWS runs a player connection: gameState on connect, then register/resume,
// submitAnswer and tabSwitch intents.
func (s *Server) servePlayerWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c := s.hub.attach()
	s.hub.SendTo(c.id, s.game.Snapshot())

	var playerID string
	s.session(conn, c, func(in inboundMessage) {
		reject := func(msg string) { s.hub.SendTo(c.id, domain.ErrorMessage{Message: msg}) }

		switch in.Type {
		case "register", "registerPlayer", "resume":
			if playerID != "" {
				reject("already registered")
				return
			}
			id, err := s.bind(c, in)
			if err != nil {
				reject(err.Error())
				return
			}
			playerID = id
		case "submitAnswer":
			var p answerPayload
			if err := decodePayload(in.Payload, &p); err != nil || p.AnswerIndex == nil {
				reject("invalid answer payload")
				return
			}
			if playerID == "" {
				reject("not registered")
				return
			}
			if err := s.game.SubmitAnswer(playerID, *p.AnswerIndex); err != nil && !ignorable(err) {
				reject(err.Error())
			}
		case "tabSwitch", "tabSwitchDetected":
			if playerID == "" {
				reject("not registered")
				return
			}
			if err := s.game.TabSwitch(playerID); err != nil && !ignorable(err) {
				reject(err.Error())
			}
		default:
			reject("unsupported message type")
		}
	})

	if playerID != "" {
		s.game.Disconnect(playerID, c.id)
	}
}

// bind attaches the connection to a new or existing player and returns its id.
func (s *Server) bind(c *client, in inboundMessage) (string, error) {
	if in.Type == "resume" {
		var p resumePayload
		if err := decodePayload(in.Payload, &p); err != nil || p.PlayerID == "" {
			return "", errors.New("invalid resume payload")
		}
		player, err := s.game.Resume(p.PlayerID, c.id)
		if err != nil {
			return "", err
		}
		return player.ID, nil
	}

	var p registerPayload
	if err := decodePayload(in.Payload, &p); err != nil {
		return "", errors.New("invalid register payload")
	}
	player, err := s.game.Register(strings.TrimSpace(p.Name), c.id)
	if err != nil {
		return "", err
	}
	return player.ID, nil
}

// ignorable are intents that arrived late or twice; the player gets no reply for them.
func ignorable(err error) bool {
	return errors.Is(err, domain.ErrAlreadyAnswered) ||
		errors.Is(err, domain.ErrAlreadyCompleted) ||
		errors.Is(err, domain.ErrPlayerEliminated) ||
		errors.Is(err, domain.ErrNoActiveQuestion) ||
		errors.Is(err, domain.ErrGameInactive)
}
