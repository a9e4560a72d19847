package discovery

import (
	"github.com/gorilla/mux"
	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, hub *Hub, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Discovery
	api.HandleFunc("/discover", handler.Discover).Methods("GET")
	api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods("GET")

	// Interactions & matches
	api.HandleFunc("/interactions", handler.RecordInteraction).Methods("POST")
	api.HandleFunc("/matches", handler.GetMatches).Methods("GET")

	// Real-time match events
	if hub != nil {
		api.HandleFunc("/ws", hub.ServeWS)
	}
}
