// Package plan loads campaign plans from YAML and checks every campaign in
// them against the validation engine and the generic guardrails.
package plan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"campaign-validator/internal/validation"
)

type Plan struct {
	Name        string               `yaml:"name"`
	BrandName   string               `yaml:"brandName"`
	TotalBudget float64              `yaml:"totalBudget"`
	MaxCPC      float64              `yaml:"maxCpc"`
	Campaigns   []validation.Context `yaml:"campaigns"`
}

func Load(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, fmt.Errorf("open plan %s: %w", path, err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return Plan{}, fmt.Errorf("plan %s: %w", path, err)
	}
	return p, nil
}

func Parse(r io.Reader) (Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Plan{}, errors.New("empty plan")
		}
		return Plan{}, fmt.Errorf("decode: %w", err)
	}
	for i, c := range p.Campaigns {
		if c.CampaignType == "" {
			return Plan{}, fmt.Errorf("campaign %d: campaignType is required", i)
		}
	}
	return p, nil
}

// Report is the outcome for one campaign of a plan. Budget and BidCap are nil
// when the campaign carries no allocation or the plan sets no max CPC.
type Report struct {
	Campaign validation.Context `json:"campaign"`
	Result   validation.Result  `json:"result"`
	Budget   *validation.Result `json:"budget,omitempty"`
	BidCap   *validation.Result `json:"bidCap,omitempty"`
}

func (r Report) Valid() bool {
	if !r.Result.IsValid {
		return false
	}
	if r.Budget != nil && !r.Budget.IsValid {
		return false
	}
	return r.BidCap == nil || r.BidCap.IsValid
}

// Errors returns the messages of all failed checks in evaluation order.
func (r Report) Errors() []string {
	var out []string
	for _, res := range []*validation.Result{&r.Result, r.Budget, r.BidCap} {
		if res != nil && !res.IsValid {
			out = append(out, res.Error)
		}
	}
	return out
}

// Check validates every campaign with v using up to workers goroutines, then
// runs the guardrails the plan asks for.
func (p Plan) Check(ctx context.Context, v *validation.Validator, workers int) ([]Report, error) {
	reqs := make([]validation.Request, len(p.Campaigns))
	for i, c := range p.Campaigns {
		reqs[i] = validation.Request{Context: c, BrandName: p.BrandName}
	}
	results, err := v.ValidateBatch(ctx, reqs, workers)
	if err != nil {
		return nil, err
	}

	out := make([]Report, len(results))
	for i, res := range results {
		c := p.Campaigns[i]
		rep := Report{Campaign: c, Result: res}
		if c.BudgetAllocation != nil {
			b := validation.ValidateBudgetAllocation(*c.BudgetAllocation, p.TotalBudget)
			rep.Budget = &b
		}
		if p.MaxCPC > 0 && c.DefaultBid != nil {
			b := validation.ValidateBidCap(*c.DefaultBid, p.MaxCPC)
			rep.BidCap = &b
		}
		out[i] = rep
	}
	return out, nil
}
