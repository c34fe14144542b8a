package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
)

const (
	wsWriteTimeout   = 10 * time.Second
	wsEventBuffer    = 256
	bookingAttribute = "bookingId"
)

// EventJSON is the wire view of a committed event.
type EventJSON struct {
	Type       string            `json:"type"`
	Height     uint64            `json:"height"`
	Attributes map[string]string `json:"attributes"`
}

func eventView(evt types.Event) EventJSON {
	attrs := evt.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	return EventJSON{Type: evt.Type, Height: evt.Height, Attributes: attrs}
}

// handleEventsWS streams live events. ?bookingId limits the stream to a
// single booking.
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	if s == nil || s.node == nil {
		http.Error(w, "node unavailable", http.StatusServiceUnavailable)
		return
	}
	filter := strings.TrimSpace(r.URL.Query().Get(bookingAttribute))
	if filter != "" {
		if _, err := strconv.ParseUint(filter, 10, 64); err != nil {
			http.Error(w, "bookingId must be an unsigned integer", http.StatusBadRequest)
			return
		}
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "stream closed")

	// Reads are discarded; CloseRead cancels ctx once the peer goes away.
	ctx := conn.CloseRead(r.Context())
	if err := s.streamEvents(ctx, conn, filter); err != nil {
		if status := websocket.CloseStatus(err); status == -1 {
			_ = conn.Close(websocket.StatusInternalError, "stream error")
		}
	}
}

func (s *Server) streamEvents(ctx context.Context, conn *websocket.Conn, bookingID string) error {
	events, cancel := s.node.Subscribe(wsEventBuffer)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if bookingID != "" && evt.Attributes[bookingAttribute] != bookingID {
				continue
			}
			if err := writeEvent(ctx, conn, evt); err != nil {
				return err
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, evt types.Event) error {
	data, err := json.Marshal(eventView(evt))
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}

// handleBookingEvents serves the archived history of a booking.
func (s *Server) handleBookingEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.archive == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "event archive disabled"})
		return
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "booking id must be an unsigned integer"})
		return
	}
	history, err := s.archive.ByBooking(r.Context(), id)
	if err != nil {
		s.logger.Error("event archive query failed", "booking_id", id, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "event archive unavailable"})
		return
	}
	out := make([]EventJSON, 0, len(history))
	for _, evt := range history {
		out = append(out, eventView(evt))
	}
	_ = json.NewEncoder(w).Encode(out)
}
