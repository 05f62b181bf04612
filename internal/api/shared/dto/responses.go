package dto

import (
	"time"

	"github.com/solspace/solspace-backend/internal/reconciler"
	"github.com/solspace/solspace-backend/internal/store/schema"
)

// StatusResponse is the body of the liveness endpoints
type StatusResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Status  string `json:"status,omitempty"`
}

// ReconcileDepositResponse reports the points credited by a reconciliation
type ReconcileDepositResponse struct {
	Identity       string              `json:"identity"`
	CreditedPoints int64               `json:"credited_points"`
	Credits        []reconciler.Credit `json:"credits"`
	Balance        int64               `json:"balance"`
}

// GameEventResponse describes an admitted game event
type GameEventResponse struct {
	ID             string    `json:"id"`
	Identity       string    `json:"identity"`
	Profit         float64   `json:"profit"`
	Volume         float64   `json:"volume"`
	PointsCredited int64     `json:"points_credited"`
	Season         string    `json:"season"`
	OccurredAt     time.Time `json:"occurred_at"`
	Balance        int64     `json:"balance"`
}

// MapGameEventToDTO maps an admitted event to its response
func MapGameEventToDTO(event *schema.GameEvent, balance int64) *GameEventResponse {
	return &GameEventResponse{
		ID:             event.ID,
		Identity:       event.Identity,
		Profit:         event.Profit,
		Volume:         event.Volume,
		PointsCredited: event.PointsCredited,
		Season:         event.Season,
		OccurredAt:     event.OccurredAt,
		Balance:        balance,
	}
}

// BalanceResponse is the points balance of one identity
type BalanceResponse struct {
	Identity string `json:"identity"`
	Points   int64  `json:"points"`
}

// SeasonResponse describes a season and its bounds
type SeasonResponse struct {
	Season string    `json:"season"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// FinalizeSeasonResponse reports the frozen standings of a season
type FinalizeSeasonResponse struct {
	Season  string `json:"season"`
	Entries int    `json:"entries"`
}
