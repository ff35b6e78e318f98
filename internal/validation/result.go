package validation

// Kind classifies why a campaign failed validation.
type Kind string

const (
	KindStructural         Kind = "structural"
	KindCardinality        Kind = "cardinality"
	KindBidding            Kind = "bidding"
	KindPlacement          Kind = "placement"
	KindBudget             Kind = "budget"
	KindContent            Kind = "content"
	KindMissingRequirement Kind = "missing_requirement"
)

// Result is the outcome of a single validation call.
// Error and Kind are set if and only if IsValid is false.
type Result struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
	Kind    Kind   `json:"kind,omitempty"`
}

func Valid() Result { return Result{IsValid: true} }

func Invalid(kind Kind, msg string) Result {
	return Result{IsValid: false, Error: msg, Kind: kind}
}
