package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"FinSeason/internal/domain/models"
	"FinSeason/pkg/logger"
)

// WarmRequest asks the service to recompute one analysis ahead of demand.
type WarmRequest struct {
	Symbol    string           `json:"symbol"`
	Years     int              `json:"years"`
	Timeframe models.Timeframe `json:"timeframe"`
}

// WarmRequestType is the job type of warm requests on the Redis queue.
const WarmRequestType = "warm-request"

// WarmRequestHandler consumes WarmRequest messages from Kafka or the Redis queue.
type WarmRequestHandler struct {
	uc    *SeasonalAnalysisUseCase
	topic string
	log   *logger.Logger
}

func NewWarmRequestHandler(uc *SeasonalAnalysisUseCase, topic string, l *logger.Logger) *WarmRequestHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &WarmRequestHandler{uc: uc, topic: topic, log: l}
}

func (h *WarmRequestHandler) Topic() string { return h.topic }

func (h *WarmRequestHandler) Type() string { return WarmRequestType }

// Handle recomputes the requested analysis. Malformed and invalid requests
// are logged and acknowledged; provider failures are returned for retry.
func (h *WarmRequestHandler) Handle(ctx context.Context, data []byte) error {
	var req WarmRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.log.Warn("malformed warm request", logger.Error(err))
		return nil
	}
	_, err := h.uc.Analyze(ctx, AnalyzeParams{
		Symbol:       req.Symbol,
		Years:        req.Years,
		Timeframe:    req.Timeframe,
		ForceRefresh: true,
	})
	if errors.Is(err, ErrInvalidRequest) {
		h.log.Warn("invalid warm request", logger.String("symbol", req.Symbol), logger.Error(err))
		return nil
	}
	return err
}
