package validation

// Channel is the advertising channel of a campaign.
type Channel string

const (
	ChannelSP Channel = "SP" // sponsored products
	ChannelSB Channel = "SB" // sponsored brands
	ChannelSD Channel = "SD" // sponsored display
)

// MatchMode is the targeting/match mode of a campaign or keyword.
type MatchMode string

const (
	MatchAuto   MatchMode = "AUTO"
	MatchBroad  MatchMode = "BROAD"
	MatchPhrase MatchMode = "PHRASE"
	MatchExact  MatchMode = "EXACT"
	MatchPT     MatchMode = "PT"
	MatchVideo  MatchMode = "VIDEO"
)

const (
	ThemeResearch    = "RESEARCH"
	ThemePerformance = "PERFORMANCE"
	ThemeBranded     = "BRANDED"
	ThemeRemarketing = "REMARKETING"
	ThemeAudience    = "AUDIENCE"
)

const (
	BidStrategyUpDown = "up_down"
	BidStrategyDown   = "down"
)

type Keyword struct {
	Text      string    `json:"text" yaml:"text" validate:"required"`
	MatchType MatchMode `json:"matchType" yaml:"matchType" validate:"required,oneof=AUTO BROAD PHRASE EXACT PT VIDEO"`
}

// Context describes one campaign/ad-group configuration to be checked.
//
// Optional numeric fields are pointers; nil means "not provided". Which fields
// a rule reads depends on the campaign family:
//   - TOSModifier: SP_EXACT_PERFORMANCE, SP_EXACT_SKAG
//   - BudgetAllocation: SP_BRANDED_UMBRELLA
//   - BidStrategy: SP_EXACT_PERFORMANCE
//   - DefaultBid/SuggestedBid: research, branded and SP product targeting families
//   - MaxKeywordsPerAdGroup: SP_BROAD_RESEARCH, SP_PHRASE_RESEARCH, SP_EXACT_PERFORMANCE
type Context struct {
	CampaignType          string    `json:"campaignType" yaml:"campaignType" validate:"required"`
	Type                  Channel   `json:"type" yaml:"type" validate:"omitempty,oneof=SP SB SD"`
	Match                 MatchMode `json:"match" yaml:"match" validate:"omitempty,oneof=AUTO BROAD PHRASE EXACT PT VIDEO"`
	Theme                 string    `json:"theme" yaml:"theme"`
	Keywords              []Keyword `json:"keywords,omitempty" yaml:"keywords" validate:"omitempty,dive"`
	ProductTargets        []string  `json:"productTargets,omitempty" yaml:"productTargets"`
	DefaultBid            *float64  `json:"defaultBid,omitempty" yaml:"defaultBid" validate:"omitempty,gt=0"`
	SuggestedBid          *float64  `json:"suggestedBid,omitempty" yaml:"suggestedBid" validate:"omitempty,gt=0"`
	BudgetAllocation      *float64  `json:"budgetAllocation,omitempty" yaml:"budgetAllocation"`
	TOSModifier           *float64  `json:"tosModifier,omitempty" yaml:"tosModifier"`
	BidStrategy           string    `json:"bidStrategy,omitempty" yaml:"bidStrategy" validate:"omitempty,oneof=up_down down"`
	MaxKeywordsPerAdGroup *int      `json:"maxKeywordsPerAdGroup,omitempty" yaml:"maxKeywordsPerAdGroup" validate:"omitempty,gt=0"`
}

// Float and Int return pointers for building contexts inline.
func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }
