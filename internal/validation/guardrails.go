package validation

import "fmt"

// DefaultMaxCPC is the bid ceiling used when ValidateBidCap gets no ceiling.
const DefaultMaxCPC = 2.00

// ValidateBidCap fails when bid exceeds ceiling. A ceiling <= 0 selects
// DefaultMaxCPC. It is not part of Validate; callers run it separately.
func ValidateBidCap(bid, ceiling float64) Result {
	if ceiling <= 0 {
		ceiling = DefaultMaxCPC
	}
	if bid > ceiling {
		return Invalid(KindBidding, fmt.Sprintf("Bid %s exceeds max CPC ceiling of %s", dollars(bid), dollars(ceiling)))
	}
	return Valid()
}

// ValidateBudgetAllocation fails when allocation is outside [0, 100].
// totalBudget is accepted for callers that already pass it but is not used.
func ValidateBudgetAllocation(allocation, totalBudget float64) Result {
	if allocation < 0 || allocation > 100 {
		return Invalid(KindBudget, fmt.Sprintf("Budget allocation must be between 0%% and 100%% (got %g%%)", allocation))
	}
	return Valid()
}
