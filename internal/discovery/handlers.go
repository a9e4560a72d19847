package discovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/logging"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	prefs := h.service.DefaultPreferences()
	if err := parsePreferences(r.URL.Query(), &prefs); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Discover(r.Context(), userID, &prefs)
	if err != nil {
		h.respondError(w, r, err, "Failed to load discovery results")
		return
	}

	utils.SuccessResponse(w, result, http.StatusOK)
}

func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto RecordInteractionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.RecordInteraction(r.Context(), userID, dto.TargetID, Action(dto.Action))
	if err != nil {
		h.respondError(w, r, err, "Failed to record interaction")
		return
	}

	utils.SuccessResponse(w, result, http.StatusOK)
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	matches, err := h.service.GetMatches(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err, "Failed to get matches")
		return
	}

	utils.SuccessResponse(w, MatchesResponse{Matches: matches, Count: len(matches)}, http.StatusOK)
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	scored, err := h.service.Compatibility(r.Context(), userID, targetID)
	if err != nil {
		h.respondError(w, r, err, "Failed to calculate compatibility")
		return
	}

	utils.SuccessResponse(w, scored, http.StatusOK)
}

// respondError maps engine errors to status codes. Unexpected errors are
// logged and hidden behind fallback.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidPreferences),
		errors.Is(err, ErrInvalidAction),
		errors.Is(err, ErrSelfInteraction):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrProfileNotFound):
		utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
	case errors.Is(err, ErrStoreUnavailable):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("store unavailable")
		utils.ErrorResponse(w, "Service temporarily unavailable, please retry", http.StatusServiceUnavailable)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg(fallback)
		utils.ErrorResponse(w, fallback, http.StatusInternalServerError)
	}
}

// parsePreferences overlays query parameters on prefs.
func parsePreferences(q url.Values, prefs *ViewerPreferences) error {
	if v := q.Get("gender"); v != "" {
		prefs.Gender = v
	}
	if v := q.Get("relationship_type"); v != "" {
		prefs.RelationshipType = v
	}
	prefs.Query = strings.TrimSpace(q.Get("q"))
	prefs.Location = strings.TrimSpace(q.Get("location"))

	for _, raw := range q["interests"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				prefs.Interests = append(prefs.Interests, tag)
			}
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"min_age", &prefs.MinAge},
		{"max_age", &prefs.MaxAge},
		{"page", &prefs.Page},
		{"page_size", &prefs.PageSize},
	}
	for _, p := range ints {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s must be an integer", p.name)
			}
			*p.dst = n
		}
	}

	if v := q.Get("max_distance"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("max_distance must be a number")
		}
		prefs.MaxDistanceKm = d
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"verified_only", &prefs.VerifiedOnly},
		{"premium_only", &prefs.PremiumOnly},
		{"include_seen", &prefs.IncludeSeen},
	}
	for _, p := range bools {
		if v := q.Get(p.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s must be true or false", p.name)
			}
			*p.dst = b
		}
	}

	return nil
}
