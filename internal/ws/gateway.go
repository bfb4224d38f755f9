package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"server/internal/generation"
	"server/internal/middleware"
	"server/internal/sanitize"
)

// Inbound and outbound event names on the session wire.
const (
	EventStartGeneration  = "start_generation"
	EventRegenerateImage  = "regenerate_image"
	EventConnectionStatus = "connection_status"
	EventProgress         = "progress"
	EventImageProgress    = "image_progress"
)

// Generator is the orchestration capability the gateway drives. The
// concrete implementation is generation.Service; tests substitute a stub.
type Generator interface {
	Describe(ctx context.Context, req generation.Request, emit func(generation.Event))
	GenerateImageAsync(ctx context.Context, productName string, emit func(generation.ImageEvent))
}

type Options struct {
	Generator     Generator
	Logger        zerolog.Logger
	ImageEnabled  bool
	APIConfigured bool
	// Country resolves an ISO country code for connect logging; optional.
	Country middleware.CountryLookup
}

// Gateway owns the session hub and translates between the wire protocol and
// the orchestrators: it validates submitted jobs, fans out to the text and
// image paths, and relays every progress event to the originating session
// only.
type Gateway struct {
	hub  *Hub
	gen  Generator
	log  zerolog.Logger
	opts Options
}

func NewGateway(opts Options) *Gateway {
	return &Gateway{
		hub:  NewHub(),
		gen:  opts.Generator,
		log:  opts.Logger,
		opts: opts,
	}
}

// Hub exposes the session registry, mainly for the status endpoint.
func (g *Gateway) Hub() *Hub { return g.hub }

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handle upgrades the request and runs the session's read loop until the
// client goes away. Jobs are driven inline, so one session processes one
// job at a time and receives its events in emission order.
func (g *Gateway) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sid := uuid.NewString()
	session := NewSession(sid, conn)
	g.hub.Register(session)
	defer g.hub.Unregister(session)

	locale := middleware.DetectLocale(r)
	g.logConnect(r, sid)

	go session.WritePump(g.hub, g.log)
	conn.SetReadLimit(1 << 20)

	g.hub.SendEvent(sid, EventConnectionStatus, map[string]string{
		"status":  "connected",
		"message": "Connected to server",
	})

	for {
		var envelope Envelope
		if err := conn.ReadJSON(&envelope); err != nil {
			g.log.Debug().Str("session", sid).Msg("session disconnected")
			return
		}
		switch envelope.Event {
		case EventStartGeneration:
			g.handleStart(sid, locale, envelope.Data)
		case EventRegenerateImage:
			g.handleRegenerate(sid, envelope.Data)
		default:
			g.log.Debug().Str("session", sid).Str("event", envelope.Event).Msg("ignoring unknown event")
		}
	}
}

func (g *Gateway) handleStart(sid, locale string, raw json.RawMessage) {
	var payload generation.Payload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			g.hub.SendEvent(sid, EventProgress, generation.Event{
				Data:  "Error: invalid job payload",
				Error: true,
			})
			return
		}
	}

	if !g.opts.APIConfigured {
		g.log.Error().Str("session", sid).Msg("generation requested without a configured API key")
		g.hub.SendEvent(sid, EventProgress, generation.Event{
			Data:  "Error: OpenAI API key is not configured. Please check server configuration.",
			Error: true,
		})
		return
	}

	if errs := generation.Validate(payload); len(errs) > 0 {
		g.log.Warn().Str("session", sid).Interface("errors", errs).Msg("job validation failed")
		g.hub.SendEvent(sid, EventProgress, generation.Event{
			Data:   "Error: " + joinFieldErrors(errs),
			Errors: errs,
		})
		return
	}

	req := payload.Normalize()
	if payload.Language == "" {
		req.Language = generation.LanguageName(locale)
	}
	g.log.Info().Str("session", sid).Str("product", req.ProductName).Msg("starting generation")

	imageRequested := payload.GenerateImage
	if imageRequested && !g.opts.ImageEnabled {
		g.log.Warn().Str("session", sid).Msg("image generation requested but disabled, downgrading to text only")
		imageRequested = false
	}

	// Orchestration outlives the session on purpose: a disconnect must not
	// cancel in-flight provider work.
	ctx := context.Background()

	var imageDone atomic.Bool
	if imageRequested {
		g.hub.SendEvent(sid, EventProgress, generation.Event{
			Data:                   "Starting image generation in parallel...",
			ImageGenerationStarted: true,
		})
		g.gen.GenerateImageAsync(ctx, req.ProductName, func(ev generation.ImageEvent) {
			if ev.Terminal() {
				imageDone.Store(true)
			}
			g.hub.SendEvent(sid, EventImageProgress, ev)
		})
	}

	g.gen.Describe(ctx, req, func(ev generation.Event) {
		g.hub.SendEvent(sid, EventProgress, ev)
		if ev.Data == "Text generation complete." && imageRequested && !imageDone.Load() {
			g.hub.SendEvent(sid, EventProgress, generation.Event{
				Data:    "Text generation complete, image generation in progress.",
				Partial: ev.Partial,
				Percent: 100,
			})
		}
	})
}

type regeneratePayload struct {
	ProductName string `json:"product_name"`
}

func (g *Gateway) handleRegenerate(sid string, raw json.RawMessage) {
	if !g.opts.APIConfigured {
		g.hub.SendEvent(sid, EventImageProgress, generation.ImageEvent{
			Status: "Error: OpenAI API key is not configured. Please check server configuration.",
			Error:  true,
		})
		return
	}
	if !g.opts.ImageEnabled {
		g.hub.SendEvent(sid, EventImageProgress, generation.ImageEvent{
			Status: "Error: image generation is disabled",
			Error:  true,
		})
		return
	}

	var payload regeneratePayload
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	name := sanitize.Clean(payload.ProductName)
	if name == "" {
		g.hub.SendEvent(sid, EventImageProgress, generation.ImageEvent{
			Status: "Error: Product name is required",
			Error:  true,
		})
		return
	}

	g.log.Info().Str("session", sid).Str("product", name).Msg("regenerating image")
	g.gen.GenerateImageAsync(context.Background(), name, func(ev generation.ImageEvent) {
		g.hub.SendEvent(sid, EventImageProgress, ev)
	})
}

func (g *Gateway) logConnect(r *http.Request, sid string) {
	evt := g.log.Debug().Str("session", sid)
	if g.opts.Country != nil {
		if ip := middleware.ClientIP(r); ip != "" {
			if country, err := g.opts.Country(ip); err == nil && country != "" {
				evt = evt.Str("country", strings.ToUpper(country))
			}
		}
	}
	evt.Msg("session connected")
}

// joinFieldErrors renders every field violation in one stable, readable
// message.
func joinFieldErrors(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, errs[field])
	}
	return strings.Join(messages, "; ")
}
