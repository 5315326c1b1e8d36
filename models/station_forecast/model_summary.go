package station_forecast

// ModelSummary describes the order the grid search picked.
type ModelSummary struct {
	Order               string          `json:"order"`
	AIC                 float64         `json:"aic"`
	CandidatesEvaluated int             `json:"candidates_evaluated"`
	CandidatesFailed    int             `json:"candidates_failed"`
	Ranking             []CandidateRank `json:"ranking,omitempty"`
}

// CandidateRank is one row of the ranked search results, "(p,q)x(P,Q)" and AIC.
type CandidateRank struct {
	Order string  `json:"order"`
	AIC   float64 `json:"aic"`
}
