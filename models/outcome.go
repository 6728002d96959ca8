package models

import (
	"time"

	"gorm.io/datatypes"
)

// Outcome records the measured results of a project. A project can
// accumulate many outcomes over time; the "current" one is the most recent
// by CreatedAt.
type Outcome struct {
	ID             uint                        `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID      uint                        `json:"project_id" db:"project_id" gorm:"not null;index"`
	SuccessMetrics datatypes.JSONMap           `json:"success_metrics" db:"success_metrics"`
	Challenges     datatypes.JSONSlice[string] `json:"challenges" db:"challenges"`
	OverallSuccess bool                        `json:"overall_success" db:"overall_success"`
	KeyFactors     datatypes.JSONSlice[string] `json:"key_factors" db:"key_factors"`
	CreatedAt      time.Time                   `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// OutcomeUpdate carries a partial outcome change. Nil fields keep their
// stored values (merge semantics, not overwrite-with-null).
type OutcomeUpdate struct {
	SuccessMetrics map[string]interface{} `json:"success_metrics"`
	Challenges     *[]string              `json:"challenges"`
	OverallSuccess *bool                  `json:"overall_success"`
	KeyFactors     *[]string              `json:"key_factors"`
}

// ApplyTo merges the supplied fields into an existing outcome.
func (u OutcomeUpdate) ApplyTo(outcome *Outcome) {
	if u.SuccessMetrics != nil {
		outcome.SuccessMetrics = datatypes.JSONMap(u.SuccessMetrics)
	}
	if u.Challenges != nil {
		outcome.Challenges = datatypes.NewJSONSlice(*u.Challenges)
	}
	if u.OverallSuccess != nil {
		outcome.OverallSuccess = *u.OverallSuccess
	}
	if u.KeyFactors != nil {
		outcome.KeyFactors = datatypes.NewJSONSlice(*u.KeyFactors)
	}
}
