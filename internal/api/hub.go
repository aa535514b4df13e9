package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/boostly-network/boostly/internal/domain"
)

// ─── Live Campaign Feed ─────────────────────────────────────────────────────
// The earn page polls nothing: campaign progress (mostly bot-driven) is
// pushed to subscribers as Server-Sent Events.
// Event shape: {type: "campaign_progress", campaigns: [...], timestamp: ...}

// CampaignHub fans campaign progress events out to SSE subscribers.
type CampaignHub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewCampaignHub creates a new campaign broadcast hub.
func NewCampaignHub() *CampaignHub {
	return &CampaignHub{
		clients: make(map[chan []byte]struct{}),
	}
}

// ProgressEvent is one live feed payload.
type ProgressEvent struct {
	Type      string            `json:"type"` // "campaign_progress"
	Campaigns []domain.Campaign `json:"campaigns"`
	Timestamp int64             `json:"timestamp"` // Unix epoch
}

// Broadcast sends updated campaigns to all connected clients.
func (h *CampaignHub) Broadcast(campaigns []domain.Campaign) {
	data, err := json.Marshal(ProgressEvent{
		Type:      "campaign_progress",
		Campaigns: campaigns,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			// Client too slow — drop message
		}
	}
}

// Subscribe registers a new client. Returns the channel and an unsubscribe func.
func (h *CampaignHub) Subscribe() (chan []byte, func()) {
	ch := make(chan []byte, 32)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
		close(ch)
	}
}

// ClientCount returns the number of connected clients.
func (h *CampaignHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// handleLive serves GET /api/campaigns/live. The route is always mounted
// so that a server running without a hub answers 503 instead of falling
// through to the campaign-by-id handler.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "live feed not enabled")
		return
	}
	s.hub.HandleLiveSSE(w, r)
}

// HandleLiveSSE serves the live campaign feed via Server-Sent Events.
// GET /api/campaigns/live
func (h *CampaignHub) HandleLiveSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	flusher.Flush()

	ch, unsub := h.Subscribe()
	defer unsub()

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-ch:
			w.Write([]byte("data: "))
			w.Write(data)
			w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}
