package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cbodonnell/huntboard/pkg/hunt"
	"github.com/cbodonnell/huntboard/pkg/log"
	"github.com/cbodonnell/huntboard/pkg/messages"
	"github.com/cbodonnell/huntboard/pkg/repositories"
	"github.com/cbodonnell/huntboard/pkg/repositories/models"
	"github.com/gorilla/mux"
)

func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func HandleListGames(service *hunt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := service.ListGames(r.Context())
		if err != nil {
			log.Error("failed to list games: %v", err)
			writeError(w, http.StatusInternalServerError, messages.ErrorKindInternal, "failed to list games")
			return
		}

		writeJSON(w, http.StatusOK, games)
	}
}

type createGameRequest struct {
	GameID string `json:"game_id"`
	Name   string `json:"name"`
}

func HandleCreateGame(service *hunt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &createGameRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			writeError(w, http.StatusBadRequest, messages.ErrorKindBadRequest, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, messages.ErrorKindBadRequest, "name is required")
			return
		}

		game, err := service.CreateGame(r.Context(), req.GameID, req.Name)
		if err != nil {
			if repositories.IsDuplicateID(err) {
				writeError(w, http.StatusConflict, messages.ErrorKindDuplicateID, err.Error())
				return
			}
			log.Error("failed to create game: %v", err)
			writeError(w, http.StatusInternalServerError, messages.ErrorKindInternal, "failed to create game")
			return
		}

		writeJSON(w, http.StatusCreated, game)
	}
}

func HandleGetGameData(service *hunt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["gameID"]

		gameData, err := service.GameData(r.Context(), gameID)
		if err != nil {
			if repositories.IsNotFound(err) {
				writeError(w, http.StatusNotFound, messages.ErrorKindNotFound, err.Error())
				return
			}
			log.Error("failed to get game data: %v", err)
			writeError(w, http.StatusInternalServerError, messages.ErrorKindInternal, "failed to get game data")
			return
		}

		writeJSON(w, http.StatusOK, gameData)
	}
}

func HandleGetTotalPoints(service *hunt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["gameID"]

		// unknown games report 0, matching the store contract
		totalPoints, err := service.TotalPoints(r.Context(), gameID)
		if err != nil {
			log.Error("failed to get total points: %v", err)
			writeError(w, http.StatusInternalServerError, messages.ErrorKindInternal, "failed to get total points")
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"total_points": totalPoints})
	}
}

func HandleToggleItem(service *hunt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		gameID := vars["gameID"]

		itemID, err := strconv.ParseInt(vars["itemID"], 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, messages.ErrorKindBadRequest, "invalid item id")
			return
		}

		result, err := service.Toggle(r.Context(), gameID, itemID)
		if err != nil {
			if repositories.IsNotFound(err) {
				writeError(w, http.StatusNotFound, messages.ErrorKindNotFound, err.Error())
				return
			}
			if repositories.IsConflict(err) {
				writeError(w, http.StatusConflict, messages.ErrorKindConflict, err.Error())
				return
			}
			log.Error("failed to toggle item: %v", err)
			writeError(w, http.StatusInternalServerError, messages.ErrorKindInternal, "failed to toggle item")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func HandleReloadCatalog(service *hunt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := []models.CatalogRecord{}
		if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
			writeError(w, http.StatusBadRequest, messages.ErrorKindBadRequest, "invalid request body")
			return
		}
		for _, record := range records {
			if record.Name == "" {
				writeError(w, http.StatusBadRequest, messages.ErrorKindBadRequest, "catalog records require an item name")
				return
			}
		}

		if err := service.ReloadCatalog(r.Context(), records); err != nil {
			log.Error("failed to reload catalog: %v", err)
			writeError(w, http.StatusInternalServerError, messages.ErrorKindInternal, "failed to reload catalog")
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"items": len(records)})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind string, message string) {
	writeJSON(w, status, &messages.ServerError{
		Kind:    kind,
		Message: message,
	})
}
