package validation

import (
	"slices"
	"strings"
)

// Family is a campaign-template family. Several campaign type codes can share
// one family and therefore one rule. FamilyUnknown is the explicit variant for
// codes outside the catalog; those pass validation.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyAutoResearch
	FamilyBroadResearch
	FamilyPhraseResearch
	FamilyExactPerformance
	FamilyExactSKAG
	FamilyBrandedUmbrella
	FamilyExactComp
	FamilySPProductTargeting
	FamilySBExact
	FamilySBBroad
	FamilySBVideo
	FamilySDRemarketing
	FamilySDAudience
	FamilySDProductTargeting
)

var familyNames = map[Family]string{
	FamilyUnknown:            "unknown",
	FamilyAutoResearch:       "auto_research",
	FamilyBroadResearch:      "broad_research",
	FamilyPhraseResearch:     "phrase_research",
	FamilyExactPerformance:   "exact_performance",
	FamilyExactSKAG:          "exact_skag",
	FamilyBrandedUmbrella:    "branded_umbrella",
	FamilyExactComp:          "exact_comp",
	FamilySPProductTargeting: "sp_product_targeting",
	FamilySBExact:            "sb_exact",
	FamilySBBroad:            "sb_broad",
	FamilySBVideo:            "sb_video",
	FamilySDRemarketing:      "sd_remarketing",
	FamilySDAudience:         "sd_audience",
	FamilySDProductTargeting: "sd_product_targeting",
}

func (f Family) String() string {
	if n, ok := familyNames[f]; ok {
		return n
	}
	return familyNames[FamilyUnknown]
}

// ParseFamily maps a family name (as returned by String) back to its value.
func ParseFamily(name string) (Family, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range familyNames {
		if n == name {
			return f, true
		}
	}
	return FamilyUnknown, false
}

// catalog maps every known campaign type code to its family and channel.
var catalog = map[string]struct {
	family  Family
	channel Channel
}{
	"SP_AUTO_RESEARCH":     {FamilyAutoResearch, ChannelSP},
	"SP_BROAD_RESEARCH":    {FamilyBroadResearch, ChannelSP},
	"SP_PHRASE_RESEARCH":   {FamilyPhraseResearch, ChannelSP},
	"SP_EXACT_PERFORMANCE": {FamilyExactPerformance, ChannelSP},
	"SP_EXACT_SKAG":        {FamilyExactSKAG, ChannelSP},
	"SP_BRANDED_UMBRELLA":  {FamilyBrandedUmbrella, ChannelSP},
	"SP_EXACT_COMP":        {FamilyExactComp, ChannelSP},

	"SP_PT_BRANDED":   {FamilySPProductTargeting, ChannelSP},
	"SP_PT_COMP_ASIN": {FamilySPProductTargeting, ChannelSP},
	"SP_PT_CATEGORY":  {FamilySPProductTargeting, ChannelSP},
	"SP_PT_CROSSELL":  {FamilySPProductTargeting, ChannelSP},

	"SB_EXACT_BRANDED":  {FamilySBExact, ChannelSB},
	"SB_EXACT_COMP":     {FamilySBExact, ChannelSB},
	"SB_BROAD_RESEARCH": {FamilySBBroad, ChannelSB},
	"SB_BROAD_CATEGORY": {FamilySBBroad, ChannelSB},
	"SB_VIDEO_BRANDED":  {FamilySBVideo, ChannelSB},
	"SB_VIDEO_COMP":     {FamilySBVideo, ChannelSB},
	"SB_VIDEO_CATEGORY": {FamilySBVideo, ChannelSB},

	"SD_REMARKETING_VIEWS":     {FamilySDRemarketing, ChannelSD},
	"SD_REMARKETING_PURCHASES": {FamilySDRemarketing, ChannelSD},
	"SD_AUDIENCE_INMARKET":     {FamilySDAudience, ChannelSD},
	"SD_AUDIENCE_LIFESTYLE":    {FamilySDAudience, ChannelSD},
	"SD_AUDIENCE_INTERESTS":    {FamilySDAudience, ChannelSD},
	"SD_PT_COMP":               {FamilySDProductTargeting, ChannelSD},
	"SD_PT_BRANDED":            {FamilySDProductTargeting, ChannelSD},
	"SD_PT_CATEGORY":           {FamilySDProductTargeting, ChannelSD},
}

// Classify returns the family for a campaign type code. Codes are matched
// exactly; anything not in the catalog is FamilyUnknown.
func Classify(code string) Family {
	if e, ok := catalog[code]; ok {
		return e.family
	}
	return FamilyUnknown
}

type CatalogEntry struct {
	Code    string  `json:"code"`
	Family  string  `json:"family"`
	Channel Channel `json:"channel"`
}

// Catalog lists the known campaign type codes sorted by code.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(catalog))
	for code, e := range catalog {
		out = append(out, CatalogEntry{Code: code, Family: e.family.String(), Channel: e.channel})
	}
	slices.SortFunc(out, func(a, b CatalogEntry) int { return strings.Compare(a.Code, b.Code) })
	return out
}
