package http

import (
	"context"
	"encoding/json"
	"net/http"

	"airport-cyber-crisis/internal/app"
	"airport-cyber-crisis/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// liveTop is how many leaderboard rows accompany welcome and end screens.
const liveTop = app.DefaultLeaderboardSize

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Name string `json:"name"`
}

type answerPayload struct {
	Choice *int `json:"choice"`
}

type welcomePayload struct {
	SessionID   string                    `json:"sessionId"`
	Name        string                    `json:"name"`
	Questions   int                       `json:"questions"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one session per connection.
// Every state change, countdown ticks included, is pushed as a "state" message.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	device := r.URL.Query().Get("device")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	// The request context ends with the handler; sessions outlive individual messages.
	ctx := context.WithoutCancel(r.Context())
	session, name := h.service.Open(ctx, device)
	defer h.service.Close(ctx, session.ID())

	updates, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	emit := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}
	emitError := func(kind string, err error) {
		emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Kind: kind, Message: err.Error()}})
	}
	emitLeaderboard := func() {
		emit(outboundMessage[any]{Type: "leaderboard", Payload: h.service.Leaderboard(ctx, liveTop)})
	}

	// Single writer: gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("session_id", session.ID()).Msg("ws write error")
				_ = conn.Close()
				return
			}
		}
	}()

	// Welcome goes out before the first state snapshot.
	emit(outboundMessage[any]{Type: "welcome", Payload: welcomePayload{
		SessionID:   session.ID(),
		Name:        name,
		Questions:   h.service.Questions(),
		Leaderboard: h.service.Leaderboard(ctx, liveTop),
	}})

	go func() {
		defer close(updatesDone)
		for {
			select {
			case state, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: state}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emitError("protocol", errInvalidPayload)
				continue
			}
			if err := h.service.Start(ctx, session.ID(), payload.Name); err != nil {
				emitError(errorKind(err), err)
			}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Choice == nil {
				emitError("protocol", errInvalidPayload)
				continue
			}
			result, err := h.service.Answer(ctx, session.ID(), *payload.Choice)
			if err != nil {
				emitError(errorKind(err), err)
				continue
			}
			emit(outboundMessage[any]{Type: "answerResult", Payload: result})
			if result.Stage == domain.StageEnd {
				emitLeaderboard()
			}
		case "end":
			if err := h.service.EndEarly(ctx, session.ID()); err != nil {
				emitError(errorKind(err), err)
				continue
			}
			emitLeaderboard()
		case "playAgain":
			if err := h.service.PlayAgain(ctx, session.ID()); err != nil {
				emitError(errorKind(err), err)
				continue
			}
			emitLeaderboard()
		case "clearLeaderboard":
			if err := h.service.ClearLeaderboard(ctx); err != nil {
				emitError(errorKind(err), err)
				continue
			}
			emitLeaderboard()
		case "leaderboard":
			emitLeaderboard()
		default:
			emitError("protocol", errUnsupportedMessage)
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
