package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	conversationHandler "github.com/brewandco/brew-counter/internal/handler/conversation"
	ordersHandler "github.com/brewandco/brew-counter/internal/handler/orders"
	speechHandler "github.com/brewandco/brew-counter/internal/handler/speech"
	voiceHandler "github.com/brewandco/brew-counter/internal/handler/voice"
	middlewarePkg "github.com/brewandco/brew-counter/internal/middleware"
	convservice "github.com/brewandco/brew-counter/internal/service/conversation"
	ordersservice "github.com/brewandco/brew-counter/internal/service/orders"
	speechservice "github.com/brewandco/brew-counter/internal/service/speech"
	"github.com/brewandco/brew-counter/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(convSvc *convservice.Service, ordersSvc *ordersservice.Service, speechSvc *speechservice.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		conversationHandler.New(convSvc).RegisterRoutes(api)
		ordersHandler.New(ordersSvc).RegisterRoutes(api)

		if speechSvc != nil {
			speechHandler.New(speechSvc).RegisterRoutes(api)
		} else {
			api.Post("/speech/synthesize", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondError(w, http.StatusNotImplemented, "speech synthesis not available")
			})
		}

		var voiceSpeech voiceHandler.SpeechService
		if speechSvc != nil {
			voiceSpeech = speechSvc
		}
		voiceHandler.NewWebSocketHandler(convSvc, voiceSpeech).RegisterRoutes(api)
	})

	return r
}
