package validation

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// bidEpsilon absorbs float error in suggestedBid*ratio so a bid exactly at the
// ratio stays valid.
const bidEpsilon = 1e-9

// check inspects one constraint and returns Valid() when it holds.
type check func(c Context) Result

// run evaluates checks in order and returns the first violation.
func run(c Context, checks ...check) Result {
	for _, chk := range checks {
		if r := chk(c); !r.IsValid {
			return r
		}
	}
	return Valid()
}

func percent(v float64) string {
	return strconv.FormatFloat(math.Round(v*10000)/100, 'f', -1, 64) + "%"
}

// dollars formats an amount without rounding it away.
func dollars(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

func matchIs(want MatchMode, msg string) check {
	return func(c Context) Result {
		if c.Match != want {
			return Invalid(KindStructural, msg)
		}
		return Valid()
	}
}

func channelIs(want Channel, msg string) check {
	return func(c Context) Result {
		if c.Type != want {
			return Invalid(KindStructural, fmt.Sprintf("%s (got %q)", msg, c.Type))
		}
		return Valid()
	}
}

func themeIs(want, msg string) check {
	return func(c Context) Result {
		if c.Theme != want {
			return Invalid(KindStructural, msg)
		}
		return Valid()
	}
}

func noKeywords(msg string) check {
	return func(c Context) Result {
		if len(c.Keywords) > 0 {
			return Invalid(KindStructural, msg)
		}
		return Valid()
	}
}

func noProductTargets(msg string) check {
	return func(c Context) Result {
		if len(c.ProductTargets) > 0 {
			return Invalid(KindStructural, msg)
		}
		return Valid()
	}
}

func hasProductTargets(msg string) check {
	return func(c Context) Result {
		if len(c.ProductTargets) == 0 {
			return Invalid(KindMissingRequirement, msg)
		}
		return Valid()
	}
}

// keywordsAll requires every keyword to use the given match type.
func keywordsAll(want MatchMode, msg string) check {
	return keywordsAmong(msg, want)
}

func keywordsAmong(msg string, allowed ...MatchMode) check {
	return func(c Context) Result {
		for _, kw := range c.Keywords {
			if !slices.Contains(allowed, kw.MatchType) {
				return Invalid(KindStructural, msg)
			}
		}
		return Valid()
	}
}

// keywordCeiling caps the keyword count at the context override, falling back
// to the family default. Any supplied override applies, zero included; only a
// missing override with no family default disables the check.
func keywordCeiling(label string, def int) check {
	return func(c Context) Result {
		limit := def
		if c.MaxKeywordsPerAdGroup != nil {
			limit = *c.MaxKeywordsPerAdGroup
		} else if def <= 0 {
			return Valid()
		}
		if n := len(c.Keywords); n > limit {
			return Invalid(KindCardinality,
				fmt.Sprintf("%s ad groups allow max %d keywords (found %d)", label, limit, n))
		}
		return Valid()
	}
}

// keywordLimit caps the keyword count at limit; format receives the limit.
func keywordLimit(limit int, format string) check {
	return func(c Context) Result {
		if limit > 0 && len(c.Keywords) > limit {
			return Invalid(KindCardinality, fmt.Sprintf(format, limit))
		}
		return Valid()
	}
}

// bidRatio only applies when both bids are present.
func bidRatio(label string, ratio float64) check {
	return func(c Context) Result {
		if ratio <= 0 || c.DefaultBid == nil || c.SuggestedBid == nil {
			return Valid()
		}
		if limit := *c.SuggestedBid * ratio; *c.DefaultBid > limit+bidEpsilon {
			return Invalid(KindBidding, fmt.Sprintf(
				"%s default bid (%s) must be ≤ %s of suggested bid (%s)",
				label, dollars(*c.DefaultBid), percent(ratio), dollars(*c.SuggestedBid)))
		}
		return Valid()
	}
}

func bidStrategyIs(want, msg string) check {
	return func(c Context) Result {
		if c.BidStrategy != want {
			return Invalid(KindBidding, msg)
		}
		return Valid()
	}
}

// tosFloor only applies when a modifier is present.
func tosFloor(label string, floor float64) check {
	return func(c Context) Result {
		if floor <= 0 || c.TOSModifier == nil {
			return Valid()
		}
		if *c.TOSModifier < floor {
			return Invalid(KindPlacement, fmt.Sprintf(
				"%s top of search modifier must be ≥ %s (got %s)",
				label, strconv.FormatFloat(floor, 'f', -1, 64)+"%",
				strconv.FormatFloat(*c.TOSModifier, 'f', -1, 64)+"%"))
		}
		return Valid()
	}
}

func budgetCeiling(label string, ceiling float64) check {
	return func(c Context) Result {
		if ceiling <= 0 || c.BudgetAllocation == nil {
			return Valid()
		}
		if *c.BudgetAllocation > ceiling {
			return Invalid(KindBudget, fmt.Sprintf(
				"%s budget allocation must be ≤ %s of total budget (got %s)",
				label, strconv.FormatFloat(ceiling, 'f', -1, 64)+"%",
				strconv.FormatFloat(*c.BudgetAllocation, 'f', -1, 64)+"%"))
		}
		return Valid()
	}
}

// brandInKeywords requires every keyword text to contain brand, ignoring case.
// It is skipped when either the brand or the keyword list is empty.
func brandInKeywords(brand string) check {
	return func(c Context) Result {
		if brand == "" || len(c.Keywords) == 0 {
			return Valid()
		}
		b := strings.ToLower(brand)
		for _, kw := range c.Keywords {
			if !strings.Contains(strings.ToLower(kw.Text), b) {
				return Invalid(KindContent, fmt.Sprintf(
					"Branded keyword %q must contain the brand name %q", kw.Text, brand))
			}
		}
		return Valid()
	}
}
