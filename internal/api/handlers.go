package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jgoulah/energyadvisor/internal/consumption"
	"github.com/jgoulah/energyadvisor/internal/database"
	"github.com/jgoulah/energyadvisor/pkg/models"
)

const maxBodyBytes = 1 << 20

// Store is the persistence the handlers need
type Store interface {
	ListRoomsWithAppliances(ctx context.Context, userID int64) ([]models.Room, error)
	UserAverages(ctx context.Context) (models.AverageConsumption, error)

	CreateRoom(ctx context.Context, room *models.Room) error
	ListRooms(ctx context.Context, userID int64) ([]models.Room, error)
	GetRoom(ctx context.Context, userID, roomID int64) (*models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, userID, roomID int64) error

	CreateAppliance(ctx context.Context, appliance *models.Appliance) error
	ListAppliancesByRoom(ctx context.Context, userID, roomID int64) ([]models.Appliance, error)
	GetAppliance(ctx context.Context, userID, applianceID int64) (*models.Appliance, error)
	UpdateAppliance(ctx context.Context, userID int64, appliance *models.Appliance) error
	DeleteAppliance(ctx context.Context, userID, applianceID int64) error
}

// Analyzer produces the consumption analysis of a user
type Analyzer interface {
	GetConsumptionAnalysis(ctx context.Context, userID int64) (models.AnalysisResult, error)
}

// Handlers serves the JSON API
type Handlers struct {
	Log      *slog.Logger
	Store    Store
	Analyzer Analyzer
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Analysis returns the per-room analysis, from the model or the rules
func (h *Handlers) Analysis(w http.ResponseWriter, r *http.Request, userID int64) {
	result, err := h.Analyzer.GetConsumptionAnalysis(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Consumption lists every appliance with derived figures
func (h *Handlers) Consumption(w http.ResponseWriter, r *http.Request, userID int64) {
	rooms, err := h.Store.ListRoomsWithAppliances(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, consumption.ApplianceBreakdown(rooms))
}

// MonthlyReport summarizes each room
func (h *Handlers) MonthlyReport(w http.ResponseWriter, r *http.Request, userID int64) {
	rooms, err := h.Store.ListRoomsWithAppliances(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, consumption.MonthlyReport(rooms))
}

// CategoryStats totals appliances per category
func (h *Handlers) CategoryStats(w http.ResponseWriter, r *http.Request, userID int64) {
	rooms, err := h.Store.ListRoomsWithAppliances(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, consumption.ByCategory(rooms))
}

// UserAverage returns the mean household across all users
func (h *Handlers) UserAverage(w http.ResponseWriter, r *http.Request) {
	avg, err := h.Store.UserAverages(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, avg)
}

// NationalAverage returns the published Brazilian reference
func (h *Handlers) NationalAverage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, consumption.NationalAverage)
}

type roomRequest struct {
	Name        string `json:"nome"`
	Description string `json:"descricao"`
}

func (h *Handlers) ListRooms(w http.ResponseWriter, r *http.Request, userID int64) {
	rooms, err := h.Store.ListRooms(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *Handlers) CreateRoom(w http.ResponseWriter, r *http.Request, userID int64) {
	var req roomRequest
	if !decode(w, r, &req) {
		return
	}

	room := &models.Room{UserID: userID, Name: req.Name, Description: req.Description}
	if err := h.Store.CreateRoom(r.Context(), room); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *Handlers) UpdateRoom(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req roomRequest
	if !decode(w, r, &req) {
		return
	}

	room := &models.Room{ID: id, UserID: userID, Name: req.Name, Description: req.Description}
	if err := h.Store.UpdateRoom(r.Context(), room); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cômodo atualizado"})
}

func (h *Handlers) DeleteRoom(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteRoom(r.Context(), userID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cômodo deletado"})
}

type applianceRequest struct {
	RoomID      int64   `json:"comodo_id"`
	Name        string  `json:"nome"`
	Category    string  `json:"categoria"`
	PowerWatts  float64 `json:"potencia_watts"`
	HoursPerDay float64 `json:"horas_uso_dia"`
}

func (req applianceRequest) appliance() *models.Appliance {
	return &models.Appliance{
		RoomID:      req.RoomID,
		Name:        req.Name,
		Category:    models.Category(req.Category),
		PowerWatts:  req.PowerWatts,
		HoursPerDay: req.HoursPerDay,
	}
}

func (h *Handlers) CreateAppliance(w http.ResponseWriter, r *http.Request, userID int64) {
	var req applianceRequest
	if !decode(w, r, &req) {
		return
	}

	if _, err := h.Store.GetRoom(r.Context(), userID, req.RoomID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusForbidden, "Cômodo não pertence ao usuário")
			return
		}
		h.fail(w, r, err)
		return
	}

	appliance := req.appliance()
	if err := h.Store.CreateAppliance(r.Context(), appliance); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, appliance)
}

func (h *Handlers) ListAppliances(w http.ResponseWriter, r *http.Request, userID int64) {
	roomID, ok := pathID(w, r, "comodo_id")
	if !ok {
		return
	}
	appliances, err := h.Store.ListAppliancesByRoom(r.Context(), userID, roomID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appliances)
}

func (h *Handlers) UpdateAppliance(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req applianceRequest
	if !decode(w, r, &req) {
		return
	}

	appliance := req.appliance()
	appliance.ID = id
	if err := h.Store.UpdateAppliance(r.Context(), userID, appliance); err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.Store.GetAppliance(r.Context(), userID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteAppliance(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteAppliance(r.Context(), userID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Aparelho deletado"})
}

// fail maps domain errors to status codes
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.Log.Error("Request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
