package validation

// Each family rule takes its Policy so the Validator can serve overridden
// thresholds. The exported Validate* functions use the built-in defaults.

func autoResearch(c Context, p Policy) Result {
	return run(c,
		matchIs(MatchAuto, "Auto Research campaigns must use Auto targeting"),
		noKeywords("Auto Research campaigns cannot have manual keywords"),
		noProductTargets("Auto Research campaigns cannot have product targets"),
		bidRatio("Auto Research", p.BidRatio),
	)
}

func broadResearch(c Context, p Policy) Result {
	return run(c,
		matchIs(MatchBroad, "Broad Research campaigns must use Broad match"),
		keywordsAll(MatchBroad, "Broad Research ad groups must only contain Broad match keywords"),
		keywordCeiling("Broad Research", p.MaxKeywords),
		bidRatio("Broad Research", p.BidRatio),
	)
}

func phraseResearch(c Context, p Policy) Result {
	return run(c,
		matchIs(MatchPhrase, "Phrase Research campaigns must use Phrase match"),
		keywordsAll(MatchPhrase, "Phrase Research ad groups must only contain Phrase match keywords"),
		keywordCeiling("Phrase Research", p.MaxKeywords),
		bidRatio("Phrase Research", p.BidRatio),
	)
}

func exactPerformance(c Context, p Policy) Result {
	return run(c,
		matchIs(MatchExact, "Exact Performance campaigns must use Exact match"),
		keywordsAll(MatchExact, "Exact Performance ad groups must only contain Exact match keywords"),
		keywordCeiling("Exact Performance", p.MaxKeywords),
		bidStrategyIs(BidStrategyUpDown, "Exact Performance campaigns must use dynamic bids - up and down"),
		tosFloor("Exact Performance", p.MinTOSModifier),
	)
}

// exactSKAG checks cardinality before keyword match types.
func exactSKAG(c Context, p Policy) Result {
	return run(c,
		matchIs(MatchExact, "SKAG campaigns must use Exact match"),
		keywordLimit(p.MaxKeywords, "SKAG ad groups must contain exactly %d keyword"),
		keywordsAll(MatchExact, "SKAG ad groups must only contain Exact match keywords"),
		tosFloor("SKAG", p.MinTOSModifier),
	)
}

func brandedUmbrella(c Context, p Policy, brandName string) Result {
	return run(c,
		brandInKeywords(brandName),
		keywordsAmong("Branded Umbrella campaigns may only use Exact and Phrase match keywords", MatchExact, MatchPhrase),
		bidRatio("Branded Umbrella", p.BidRatio),
		budgetCeiling("Branded Umbrella", p.MaxBudgetShare),
	)
}

func exactComp(c Context, _ Policy) Result {
	return run(c,
		matchIs(MatchExact, "Competitor Exact campaigns must use Exact match"),
		keywordsAll(MatchExact, "Competitor Exact ad groups must only contain Exact match keywords"),
	)
}

func spProductTargeting(c Context, p Policy) Result {
	return run(c,
		matchIs(MatchPT, "Product targeting campaigns must use PT targeting"),
		noKeywords("Product targeting campaigns cannot have keywords"),
		hasProductTargets("Product targeting campaigns must have product targets"),
		bidRatio("Product targeting", p.BidRatio),
	)
}

func sbExact(c Context, _ Policy) Result {
	return run(c,
		matchIs(MatchExact, "SB Exact campaigns must use Exact match"),
		keywordsAll(MatchExact, "SB Exact campaigns must only contain Exact match keywords"),
	)
}

func sbBroad(c Context, _ Policy) Result {
	return run(c,
		matchIs(MatchBroad, "SB Broad campaigns must use Broad match"),
		keywordsAll(MatchBroad, "SB Broad campaigns must only contain Broad match keywords"),
	)
}

func sbVideo(c Context, _ Policy) Result {
	return run(c,
		matchIs(MatchVideo, "SB Video campaigns must use the Video creative type"),
	)
}

func sdRemarketing(c Context, _ Policy) Result {
	return run(c,
		channelIs(ChannelSD, "Remarketing campaigns must run on Sponsored Display (SD)"),
		themeIs(ThemeRemarketing, "Remarketing campaigns must use the REMARKETING theme"),
	)
}

func sdAudience(c Context, _ Policy) Result {
	return run(c,
		channelIs(ChannelSD, "Audience campaigns must run on Sponsored Display (SD)"),
		themeIs(ThemeAudience, "Audience campaigns must use the AUDIENCE theme"),
	)
}

func sdProductTargeting(c Context, _ Policy) Result {
	return run(c,
		channelIs(ChannelSD, "SD product targeting campaigns must run on Sponsored Display (SD)"),
		matchIs(MatchPT, "SD product targeting campaigns must use PT targeting"),
		hasProductTargets("SD product targeting campaigns must have product targets"),
	)
}

var defaults = DefaultPolicies()

func ValidateAutoResearch(c Context) Result {
	return autoResearch(c, defaults[FamilyAutoResearch])
}

func ValidateBroadResearch(c Context) Result {
	return broadResearch(c, defaults[FamilyBroadResearch])
}

func ValidatePhraseResearch(c Context) Result {
	return phraseResearch(c, defaults[FamilyPhraseResearch])
}

func ValidateExactPerformance(c Context) Result {
	return exactPerformance(c, defaults[FamilyExactPerformance])
}

func ValidateExactSKAG(c Context) Result {
	return exactSKAG(c, defaults[FamilyExactSKAG])
}

// ValidateBrandedUmbrella checks a branded-defense campaign. brandName may be
// empty, in which case keyword texts are not checked for the brand.
func ValidateBrandedUmbrella(c Context, brandName string) Result {
	return brandedUmbrella(c, defaults[FamilyBrandedUmbrella], brandName)
}

func ValidateExactComp(c Context) Result {
	return exactComp(c, defaults[FamilyExactComp])
}

func ValidateSPProductTargeting(c Context) Result {
	return spProductTargeting(c, defaults[FamilySPProductTargeting])
}

func ValidateSBExact(c Context) Result { return sbExact(c, Policy{}) }

func ValidateSBBroad(c Context) Result { return sbBroad(c, Policy{}) }

func ValidateSBVideo(c Context) Result { return sbVideo(c, Policy{}) }

func ValidateSDRemarketing(c Context) Result { return sdRemarketing(c, Policy{}) }

func ValidateSDAudience(c Context) Result { return sdAudience(c, Policy{}) }

func ValidateSDProductTargeting(c Context) Result { return sdProductTargeting(c, Policy{}) }
