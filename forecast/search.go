package forecast

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tube-twin/timeseries"
)

// Candidate is the searched part of a seasonal order, (p,q)x(P,Q).
type Candidate struct {
	P  int `json:"p"`
	Q  int `json:"q"`
	SP int `json:"seasonal_p"`
	SQ int `json:"seasonal_q"`
}

func (c Candidate) String() string {
	return fmt.Sprintf("(%d,%d)x(%d,%d)", c.P, c.Q, c.SP, c.SQ)
}

func (c Candidate) less(o Candidate) bool {
	if c.P != o.P {
		return c.P < o.P
	}
	if c.Q != o.Q {
		return c.Q < o.Q
	}
	if c.SP != o.SP {
		return c.SP < o.SP
	}
	return c.SQ < o.SQ
}

// Scored pairs a candidate with the AIC of its fitted model.
type Scored struct {
	Candidate
	AIC float64 `json:"aic"`
}

// SearchConfig fixes the differencing and seasonality shared by every
// candidate.
type SearchConfig struct {
	MaxOrder int // each of p, q, P, Q ranges over [0, MaxOrder]
	D        int
	SD       int
	Period   int
	Workers  int // 1 evaluates candidates sequentially

	fit fitFunc
}

// DefaultSearchConfig is the dashboard's search: orders 0..3, d=D=1, s=4.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{MaxOrder: 3, D: 1, SD: 1, Period: 4, Workers: 1}
}

// Order expands a candidate to a full seasonal order.
func (c SearchConfig) Order(cand Candidate) Order {
	return Order{
		P: cand.P, D: c.D, Q: cand.Q,
		SP: cand.SP, SD: c.SD, SQ: cand.SQ, M: c.Period,
	}
}

// Candidates returns the Cartesian product of [0, maxOrder] four times.
func Candidates(maxOrder int) []Candidate {
	var out []Candidate
	for p := 0; p <= maxOrder; p++ {
		for q := 0; q <= maxOrder; q++ {
			for sp := 0; sp <= maxOrder; sp++ {
				for sq := 0; sq <= maxOrder; sq++ {
					out = append(out, Candidate{P: p, Q: q, SP: sp, SQ: sq})
				}
			}
		}
	}
	return out
}

func (c SearchConfig) fitter() fitFunc {
	if c.fit != nil {
		return c.fit
	}
	return fitSARIMA
}

// SearchResult holds the successfully fitted candidates, best first.
type SearchResult struct {
	Scores    []Scored
	Evaluated int
	Failed    int
}

// Best returns the lowest-AIC candidate.
func (r *SearchResult) Best() (Scored, error) {
	if r == nil || len(r.Scores) == 0 {
		return Scored{}, ErrNoViableModel
	}
	return r.Scores[0], nil
}

// Search fits every candidate and ranks the ones that fit by AIC. A candidate
// is dropped only when its fit fails. It returns ErrNoViableModel when
// nothing fits.
func Search(ctx context.Context, series *timeseries.Series, candidates []Candidate, cfg SearchConfig) (*SearchResult, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	fit := cfg.fitter()
	slots := make([]*Scored, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, cand := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			order := cfg.Order(cand)
			model, err := fit(order, series)
			if err != nil {
				log.Debug().Str("station", series.Name).Str("order", order.String()).Err(err).
					Msg("[Search] skipping candidate")
				return nil
			}
			slots[i] = &Scored{Candidate: cand, AIC: model.AIC}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &SearchResult{Evaluated: len(candidates)}
	for _, s := range slots {
		if s == nil {
			result.Failed++
			continue
		}
		result.Scores = append(result.Scores, *s)
	}
	sort.SliceStable(result.Scores, func(i, j int) bool {
		a, b := result.Scores[i], result.Scores[j]
		if a.AIC != b.AIC {
			return a.AIC < b.AIC
		}
		return a.Candidate.less(b.Candidate)
	})

	log.Debug().Str("station", series.Name).Int("evaluated", result.Evaluated).Int("failed", result.Failed).
		Msg("[Search] grid search finished")

	if len(result.Scores) == 0 {
		return result, ErrNoViableModel
	}
	return result, nil
}
