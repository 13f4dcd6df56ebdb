// Package run defines the persisted record of a completed analysis.
package run

import (
	"encoding/json"

	"goanova/domain/anova"
	"goanova/domain/core"
)

// Payload is the JSON body of a stored run: exactly one of OneWay or
// TwoWay is set, plus any post-hoc results computed alongside it.
type Payload struct {
	OneWay     *anova.OneWayResult    `json:"one_way,omitempty"`
	TwoWay     *anova.TwoWayResult    `json:"two_way,omitempty"`
	PostHoc    []*anova.PostHocResult `json:"post_hoc,omitempty"`
	PostHocByA []*anova.PostHocResult `json:"post_hoc_by_a,omitempty"`
	PostHocByB []*anova.PostHocResult `json:"post_hoc_by_b,omitempty"`
}

// Record is an immutable persisted analysis run.
type Record struct {
	ID        core.RunID      `json:"id" db:"id"`
	Design    anova.Design    `json:"design" db:"design"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	Summary   string          `json:"summary" db:"summary"`
	CreatedAt core.Timestamp  `json:"created_at" db:"created_at"`
}

// NewRecord creates a run record with a fresh time-ordered ID.
func NewRecord(design anova.Design, payload Payload, summary string) (*Record, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:        core.NewRunID(),
		Design:    design,
		Payload:   body,
		Summary:   summary,
		CreatedAt: core.Now(),
	}, nil
}

// DecodePayload unmarshals the stored result bundle.
func (r *Record) DecodePayload() (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(r.Payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
