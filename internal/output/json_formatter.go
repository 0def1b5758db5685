package output

import (
	"encoding/json"

	"github.com/goalplan/goalplan/internal/domain"
)

// JSONFormatter serializes the household plan as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(plan *domain.HouseholdPlan) ([]byte, error) {
	return json.MarshalIndent(plan, "", "  ")
}
