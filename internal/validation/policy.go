package validation

// Policy holds the numeric thresholds of one family. Zero values mean the
// family does not enforce that threshold.
type Policy struct {
	BidRatio       float64 `json:"bidRatio,omitempty"`       // max defaultBid / suggestedBid
	MaxKeywords    int     `json:"maxKeywords,omitempty"`    // default keyword ceiling per ad group
	MinTOSModifier float64 `json:"minTosModifier,omitempty"` // floor for the top-of-search modifier, percent
	MaxBudgetShare float64 `json:"maxBudgetShare,omitempty"` // ceiling for budgetAllocation, percent
}

// Policies is a full threshold table keyed by family.
type Policies map[Family]Policy

// DefaultPolicies returns a fresh copy of the built-in thresholds.
func DefaultPolicies() Policies {
	return Policies{
		FamilyAutoResearch:       {BidRatio: 0.70},
		FamilyBroadResearch:      {BidRatio: 0.80, MaxKeywords: 50},
		FamilyPhraseResearch:     {BidRatio: 0.90, MaxKeywords: 50},
		FamilyExactPerformance:   {MaxKeywords: 15, MinTOSModifier: 20},
		FamilyExactSKAG:          {MaxKeywords: 1, MinTOSModifier: 30},
		FamilyBrandedUmbrella:    {BidRatio: 0.80, MaxBudgetShare: 10},
		FamilySPProductTargeting: {BidRatio: 0.90},
	}
}

// PolicyOverride replaces individual thresholds of a family. Nil fields keep
// the current value.
type PolicyOverride struct {
	Family         Family
	BidRatio       *float64
	MaxKeywords    *int
	MinTOSModifier *float64
	MaxBudgetShare *float64
}

func (p Policies) clone() Policies {
	out := make(Policies, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// With returns a copy of p with the overrides applied in order.
func (p Policies) With(overrides ...PolicyOverride) Policies {
	out := p.clone()
	for _, o := range overrides {
		if o.Family == FamilyUnknown {
			continue
		}
		cur := out[o.Family]
		if o.BidRatio != nil {
			cur.BidRatio = *o.BidRatio
		}
		if o.MaxKeywords != nil {
			cur.MaxKeywords = *o.MaxKeywords
		}
		if o.MinTOSModifier != nil {
			cur.MinTOSModifier = *o.MinTOSModifier
		}
		if o.MaxBudgetShare != nil {
			cur.MaxBudgetShare = *o.MaxBudgetShare
		}
		out[o.Family] = cur
	}
	return out
}
