package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jgoulah/energyadvisor/internal/consumption"
	"github.com/jgoulah/energyadvisor/internal/logging"
	"github.com/jgoulah/energyadvisor/pkg/models"
)

// RoomReader loads a user's rooms together with their appliances
type RoomReader interface {
	ListRoomsWithAppliances(ctx context.Context, userID int64) ([]models.Room, error)
}

// Gateway asks a language model for an analysis. ok is false whenever no
// usable text came back, including when the gateway is not configured.
type Gateway interface {
	RequestAnalysis(ctx context.Context, prompt string) (text string, ok bool)
}

// Service produces consumption analyses. It holds no per-request state and
// is safe for concurrent use.
type Service struct {
	rooms   RoomReader
	gateway Gateway
	log     *slog.Logger
}

// NewService creates a Service. A nil gateway always takes the heuristic path.
func NewService(rooms RoomReader, gateway Gateway, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		rooms:   rooms,
		gateway: gateway,
		log:     logger.With("component", "analysis"),
	}
}

// GetConsumptionAnalysis analyzes every room of a user. Missing data and an
// unavailable or misbehaving model both yield a complete result; only a
// failure to read the rooms is returned as an error.
func (s *Service) GetConsumptionAnalysis(ctx context.Context, userID int64) (models.AnalysisResult, error) {
	rooms, err := s.rooms.ListRoomsWithAppliances(ctx, userID)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("loading rooms for user %d: %w", userID, err)
	}

	log := s.log.With("user_id", userID)

	if len(rooms) == 0 {
		log.Info("No rooms registered")
		return emptyResult(SummaryNoRooms), nil
	}

	named := consumption.WithNamedAppliances(consumption.AggregateRooms(rooms))
	if len(named) == 0 {
		log.Info("No appliances registered", "rooms", len(rooms))
		return emptyResult(SummaryNoAppliances), nil
	}

	if result, ok := s.analyzeWithModel(ctx, log, named); ok {
		log.Info("Analysis completed", "source", result.Source, "rooms", len(result.Rooms))
		return result, nil
	}

	result := Normalize(Heuristic(named))
	log.Info("Analysis completed", "source", result.Source, "rooms", len(result.Rooms))
	return result, nil
}

func (s *Service) analyzeWithModel(ctx context.Context, log *slog.Logger, rooms []models.RoomConsumption) (models.AnalysisResult, bool) {
	if s.gateway == nil {
		return models.AnalysisResult{}, false
	}

	prompt, err := BuildPrompt(rooms)
	if err != nil {
		log.Error("Building prompt failed", "error", err)
		return models.AnalysisResult{}, false
	}

	text, ok := s.gateway.RequestAnalysis(ctx, prompt)
	if !ok {
		log.Info("Model unavailable, falling back to heuristic analysis")
		return models.AnalysisResult{}, false
	}

	parsed, err := ParseResponse(text)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			log.Warn("Model response rejected, falling back to heuristic analysis",
				"reason", perr.Reason, "error", err, "raw", perr.Raw)
		}
		return models.AnalysisResult{}, false
	}

	return FromLLM(parsed), true
}

func emptyResult(summary string) models.AnalysisResult {
	return models.AnalysisResult{
		Rooms:        []models.RoomAnalysis{},
		TotalSavings: 0,
		Summary:      summary,
		Source:       models.SourceNone,
	}
}
