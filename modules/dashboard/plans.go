package dashboard

// Plan - a subscription tier shown on the billing page (display only)
type Plan struct {
	Name     string
	PriceUSD int
	Credits  int
	Features []string
	Popular  bool
}

// Plans are the static billing tiers.
var Plans = []Plan{
	{
		Name:     "Starter",
		PriceUSD: 29,
		Credits:  100,
		Features: []string{"All Platforms", "Standard Templates", "5 Brands"},
	},
	{
		Name:     "Professional",
		PriceUSD: 99,
		Credits:  500,
		Features: []string{"AI Image Gen", "A/B Testing", "Unlimited Brands", "Priority Support"},
		Popular:  true,
	},
	{
		Name:     "Scale",
		PriceUSD: 299,
		Credits:  2500,
		Features: []string{"API Access", "Custom Templates", "Bulk Export", "Account Manager"},
	},
}
