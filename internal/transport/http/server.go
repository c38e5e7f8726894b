package http

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"

	"resident-lockdown/internal/app"
	"resident-lockdown/internal/domain"
	"resident-lockdown/internal/export"
)

const qrSize = 320

// Options tune the HTTP surface.
type Options struct {
	AdminToken string
	// PublicURL is encoded in the join QR code. Derived from the request when empty.
	PublicURL    string
	MessageRate  rate.Limit
	MessageBurst int
}

// Server exposes the game over websockets and a handful of REST routes.
type Server struct {
	game     *app.Game
	admin    *app.Admin
	hub      *Hub
	opts     Options
	upgrader websocket.Upgrader
}

func NewServer(game *app.Game, hub *Hub, opts Options) *Server {
	if opts.MessageRate <= 0 {
		opts.MessageRate = 20
	}
	if opts.MessageBurst <= 0 {
		opts.MessageBurst = 40
	}
	return &Server{
		game:  game,
		admin: game.Admin(),
		hub:   hub,
		opts:  opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Routes() http.Handler {
	mux := httprouter.New()
	mux.GET("/healthz", s.serveHealth)
	mux.GET("/ws", s.servePlayerWS)
	mux.GET("/admin/ws", s.serveAdminWS)
	mux.GET("/api/status", s.serveStatus)
	mux.GET("/api/leaderboard", s.serveLeaderboard)
	mux.GET("/api/join-qr", s.serveJoinQR)
	mux.GET("/api/admin/export.xlsx", s.serveExport)
	return mux
}

func (s *Server) serveHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Ok\n"))
}

func (s *Server) serveStatus(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, s.game.Status())
}

func (s *Server) serveLeaderboard(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, s.game.Leaderboard())
}

func (s *Server) serveJoinQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	url := s.opts.PublicURL
	if url == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		url = scheme + "://" + r.Host + "/"
	}

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	filename := fmt.Sprintf("lockdown_results_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteXLSX(w, s.admin.ExportResults()); err != nil {
		log.Printf("export results: %v", err)
	}
}

// authorized checks the admin token from the query string or the X-Admin-Token header.
// An unset token locks the admin surface entirely.
func (s *Server) authorized(r *http.Request) bool {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("X-Admin-Token")
	}
	if s.opts.AdminToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.opts.AdminToken)) == 1
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// decodePayload accepts a missing payload as the zero value.
func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// session pumps one websocket connection. The writer drains the hub queue; the reader hands
// each rate-limited inbound message to handle until the peer goes away. Frames that are not
// JSON get an error reply and the connection stays open.
func (s *Server) session(conn *websocket.Conn, c *client, handle func(in inboundMessage)) {
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for data := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("ws write error: %v", err)
				_ = conn.Close()
				return
			}
		}
	}()

	limiter := rate.NewLimiter(s.opts.MessageRate, s.opts.MessageBurst)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if !limiter.Allow() {
			continue
		}
		var in inboundMessage
		if err := json.Unmarshal(data, &in); err != nil {
			s.hub.SendTo(c.id, domain.ErrorMessage{Message: "invalid message"})
			continue
		}
		handle(in)
	}

	s.hub.detach(c)
	<-writerDone
}
