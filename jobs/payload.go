// Package jobs runs deferred championship operations. Every job kind is a concrete payload type
// dispatched through an explicit type switch.
package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/championship-manager/models"
	"github.com/google/uuid"
)

var (
	ErrUnknownKind    = errors.New("unknown job kind")
	ErrInvalidPayload = errors.New("invalid job payload")
)

type Kind string

const (
	KindChangeChampionshipStatus  Kind = "change_championship_status"
	KindRecalculateClassification Kind = "recalculate_classification"
)

// Payload is implemented only by the job types of this package.
type Payload interface {
	Kind() Kind
	isPayload()
}

// ChangeChampionshipStatus moves a championship to Status when it runs.
type ChangeChampionshipStatus struct {
	ChampionshipID int                       `json:"championship_id"`
	Status         models.ChampionshipStatus `json:"status"`
}

func (ChangeChampionshipStatus) Kind() Kind { return KindChangeChampionshipStatus }
func (ChangeChampionshipStatus) isPayload() {}

// RecalculateClassification rebuilds points and positions of a league or group-stage table.
type RecalculateClassification struct {
	ChampionshipID int `json:"championship_id"`
}

func (RecalculateClassification) Kind() Kind { return KindRecalculateClassification }
func (RecalculateClassification) isPayload() {}

// Envelope is the stored form of a job.
type Envelope struct {
	ID       uuid.UUID       `json:"id"`
	Kind     Kind            `json:"kind"`
	RunAt    time.Time       `json:"run_at"`
	Attempts int             `json:"attempts"`
	Payload  json.RawMessage `json:"payload"`
}

func NewEnvelope(id uuid.UUID, payload Payload, runAt time.Time) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", payload.Kind(), err)
	}
	return Envelope{ID: id, Kind: payload.Kind(), RunAt: runAt, Payload: raw}, nil
}

// Decode returns the typed payload carried by the envelope.
func (e Envelope) Decode() (Payload, error) {
	switch e.Kind {
	case KindChangeChampionshipStatus:
		var p ChangeChampionshipStatus
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, e.Kind, err)
		}
		if !p.Status.IsValid() {
			return nil, fmt.Errorf("%w: %s: status %q", ErrInvalidPayload, e.Kind, p.Status)
		}
		return p, nil
	case KindRecalculateClassification:
		var p RecalculateClassification
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, e.Kind, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
}
