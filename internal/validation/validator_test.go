package validation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, FamilySPProductTargeting, Classify("SP_PT_BRANDED"))
	assert.Equal(t, FamilySPProductTargeting, Classify("SP_PT_CROSSELL"))
	assert.Equal(t, FamilySDProductTargeting, Classify("SD_PT_COMP"))
	assert.Equal(t, FamilyUnknown, Classify("sp_auto_research"))
	assert.Equal(t, FamilyUnknown, Classify(""))

	f, ok := ParseFamily("Exact_SKAG")
	require.True(t, ok)
	assert.Equal(t, FamilyExactSKAG, f)
	_, ok = ParseFamily("bogus")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Family(999).String())
}

func TestCatalog_SortedAndComplete(t *testing.T) {
	entries := Catalog()
	require.Len(t, entries, len(catalog))
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Code, entries[i].Code)
	}
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.Family] = true
		assert.NotEqual(t, "unknown", e.Family)
	}
	assert.Len(t, seen, len(familyNames)-1)
}

func TestValidator_ApplyOverrides(t *testing.T) {
	v := NewValidator()
	c := Context{
		CampaignType: "SP_BROAD_RESEARCH",
		Match:        MatchBroad,
		Keywords:     nKeywords(30, MatchBroad),
		DefaultBid:   Float(0.85),
		SuggestedBid: Float(1.00),
	}

	r := v.Validate(c, "")
	require.False(t, r.IsValid)
	assert.Contains(t, r.Error, "80%")

	v.ApplyOverrides([]PolicyOverride{
		{Family: FamilyBroadResearch, BidRatio: Float(0.85), MaxKeywords: Int(25)},
		{Family: FamilyUnknown, MaxKeywords: Int(1)},
	})
	r = v.Validate(c, "")
	require.False(t, r.IsValid)
	assert.Contains(t, r.Error, "max 25 keywords")

	c.Keywords = nKeywords(25, MatchBroad)
	assert.True(t, v.Validate(c, "").IsValid)

	// overrides replace, not accumulate
	v.ApplyOverrides(nil)
	assert.Equal(t, DefaultPolicies(), v.Policies())

	// the package-level validator keeps the defaults
	r = Validate(c, "")
	assert.Contains(t, r.Error, "80%")
}

func TestValidator_PoliciesIsCopy(t *testing.T) {
	v := NewValidator()
	p := v.Policies()
	p[FamilyAutoResearch] = Policy{BidRatio: 5}
	assert.Equal(t, 0.70, v.Policies()[FamilyAutoResearch].BidRatio)
}

func TestValidator_ConcurrentSwap(t *testing.T) {
	v := NewValidator()
	c := compliant("SP_EXACT_SKAG")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.True(t, v.Validate(c, "").IsValid)
			}
		}()
	}
	for j := 0; j < 50; j++ {
		v.ApplyOverrides([]PolicyOverride{{Family: FamilyExactSKAG, MinTOSModifier: Float(25)}})
	}
	wg.Wait()
}

func TestValidateBatch(t *testing.T) {
	v := NewValidator()
	reqs := []Request{
		{Context: compliant("SP_AUTO_RESEARCH")},
		{Context: Context{CampaignType: "SP_AUTO_RESEARCH", Match: MatchBroad}},
		{Context: compliant("SP_BRANDED_UMBRELLA"), BrandName: "Acme"},
		{Context: compliant("SP_BRANDED_UMBRELLA"), BrandName: "Globex"},
		{Context: Context{CampaignType: "WHATEVER"}},
	}

	got, err := v.ValidateBatch(context.Background(), reqs, 2)
	require.NoError(t, err)
	require.Len(t, got, len(reqs))
	assert.True(t, got[0].IsValid)
	assert.Contains(t, got[1].Error, "Auto targeting")
	assert.True(t, got[2].IsValid)
	assert.Contains(t, got[3].Error, "brand name")
	assert.True(t, got[4].IsValid)
}

func TestValidateBatch_Cancelled(t *testing.T) {
	v := NewValidator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := v.ValidateBatch(ctx, []Request{{Context: compliant("SP_EXACT_COMP")}}, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

func TestValidateBatch_Empty(t *testing.T) {
	got, err := NewValidator().ValidateBatch(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, got)
}
