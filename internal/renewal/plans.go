package renewal

import (
	"strings"

	"github.com/mapleleads/directory-web/internal/domain"
)

// Plan is one tiered renewal offer. Content is static; only the example
// line changes, with the matched record's fields substituted in.
type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
	Example     string   `json:"example"`
	CheckoutURL string   `json:"checkoutUrl"`
}

// The two fixed tiers. Checkout stays an opaque external link per tier;
// no pricing logic lives here.
var planTiers = []Plan{
	{
		ID:       "standard",
		Name:     "Standard Listing",
		Price:    "$99",
		Interval: "year",
		Features: []string{
			"Verified business badge",
			"Listing in {industry} searches",
			"Customer reviews enabled",
		},
		Example: "{company} appears in {industry} results for {city}.",
	},
	{
		ID:       "featured",
		Name:     "Featured Listing",
		Price:    "$249",
		Interval: "year",
		Features: []string{
			"Everything in Standard",
			"Pinned above regular {industry} results",
			"Highlighted listing card",
			"Priority support",
		},
		Example: "{company} shows first when customers search {industry} in {city}.",
	},
}

// Plans returns the tiered offers for the matched record. The checkout
// base URL comes from configuration; the plan id is appended as the only
// parameter this layer owns.
func Plans(record *domain.BusinessRecord, checkoutBaseURL string) []Plan {
	plans := make([]Plan, len(planTiers))

	for i, tier := range planTiers {
		plan := tier
		plan.Features = make([]string, len(tier.Features))

		r := recordReplacer(record)
		for j, f := range tier.Features {
			plan.Features[j] = r.Replace(f)
		}
		plan.Example = r.Replace(tier.Example)
		plan.CheckoutURL = checkoutBaseURL + "?plan=" + plan.ID

		plans[i] = plan
	}

	return plans
}

func recordReplacer(record *domain.BusinessRecord) *strings.Replacer {
	company, industry, city := "your business", "local", "your area"
	if record != nil {
		if record.CompanyName != "" {
			company = record.CompanyName
		}
		if record.Industry != "" {
			industry = record.Industry
		}
		if record.City != "" {
			city = record.City
		}
	}

	return strings.NewReplacer(
		"{company}", company,
		"{industry}", industry,
		"{city}", city,
	)
}
