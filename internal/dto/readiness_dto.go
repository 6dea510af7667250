package dto

import "ai-coach-be/pkg/metrics"

type ReadinessResponse struct {
	Score  int                    `json:"score"`
	Ratio  float64                `json:"ratio"`
	Flag   string                 `json:"flag"`
	Basis  string                 `json:"basis"`
	Inputs metrics.LoadAggregates `json:"inputs"`
}
