package validation

import (
	"campaign-validator/internal/cache"
)

// Validator dispatches contexts to family rules using a policy table that can
// be swapped at runtime. It is safe for concurrent use.
type Validator struct {
	snap cache.Snapshot[Policies]
}

func NewValidator() *Validator {
	v := &Validator{}
	v.snap.Store(DefaultPolicies())
	return v
}

// ApplyOverrides rebuilds the policy table from the defaults plus overrides.
// Earlier overrides are discarded.
func (v *Validator) ApplyOverrides(overrides []PolicyOverride) {
	v.snap.Store(DefaultPolicies().With(overrides...))
}

// Policies returns a copy of the active policy table.
func (v *Validator) Policies() Policies {
	return v.policies().clone()
}

func (v *Validator) policies() Policies {
	p, ok := v.snap.Load()
	if !ok {
		return defaults
	}
	return p
}

// Validate routes c to the rule for its campaign type. brandName is only read
// by the branded umbrella rule. Unknown campaign types are valid.
func (v *Validator) Validate(c Context, brandName string) Result {
	f := Classify(c.CampaignType)
	p := v.policies()[f]

	switch f {
	case FamilyAutoResearch:
		return autoResearch(c, p)
	case FamilyBroadResearch:
		return broadResearch(c, p)
	case FamilyPhraseResearch:
		return phraseResearch(c, p)
	case FamilyExactPerformance:
		return exactPerformance(c, p)
	case FamilyExactSKAG:
		return exactSKAG(c, p)
	case FamilyBrandedUmbrella:
		return brandedUmbrella(c, p, brandName)
	case FamilyExactComp:
		return exactComp(c, p)
	case FamilySPProductTargeting:
		return spProductTargeting(c, p)
	case FamilySBExact:
		return sbExact(c, p)
	case FamilySBBroad:
		return sbBroad(c, p)
	case FamilySBVideo:
		return sbVideo(c, p)
	case FamilySDRemarketing:
		return sdRemarketing(c, p)
	case FamilySDAudience:
		return sdAudience(c, p)
	case FamilySDProductTargeting:
		return sdProductTargeting(c, p)
	case FamilyUnknown:
		return Valid()
	default:
		return Valid()
	}
}

var std = NewValidator()

// Validate runs the default Validator.
func Validate(c Context, brandName string) Result {
	return std.Validate(c, brandName)
}
