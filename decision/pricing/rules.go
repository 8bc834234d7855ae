package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"usdl-offering/decision/usdl"
	"usdl-offering/pkg/units"
)

// Rule names
const (
	RuleSingleService   = "single-service"
	RuleOpenOffering    = "open-offering"
	RulePlanLabels      = "plan-labels"
	RulePriceComponents = "price-components"
)

// Reserved plan labels
const (
	LabelUpdate    = "update"
	LabelDeveloper = "developer"
)

// Violation messages
const (
	MsgSingleService    = "Only a Service included in the offering is supported"
	MsgOpenPlanCount    = "For open offerings only a price plan is allowed and must specify free use"
	MsgOpenPricing      = "It is not allowed to specify pricing models for open offerings"
	MsgLabelRequired    = "A label is required if there are more than a price plan"
	MsgLabelsNotUnique  = "The price plan labels must be unique"
	MsgDuplicateUpdate  = "Only an updating price plan is allowed"
	MsgDuplicateDevelop = "Only a developers plan is allowed"
	MsgUpdateNeedsPrior = "It is not possible to define an updating plan without a previous version of the offering"
	MsgInvalidCurrency  = "A price component contains and invalid or unsupported currency"
	MsgMixedCurrencies  = "All price components must use the same currency"
	MsgUnsupportedUnit  = "A price component contains an unsupported unit"
	MsgInvalidValue     = "A price component contains an invalid value"
)

// Rule is a self-contained pricing check. Check returns the violation
// message, or "" when the offering satisfies the rule.
type Rule struct {
	Name        string
	Description string
	Check       func(offering *usdl.Offering, vctx Context) string
}

func defaultRules() []Rule {
	return []Rule{
		{
			Name:        RuleSingleService,
			Description: "An offering includes exactly one service",
			Check:       checkSingleService,
		},
		{
			Name:        RuleOpenOffering,
			Description: "Open offerings define a single free price plan",
			Check:       checkOpenOffering,
		},
		{
			Name:        RulePlanLabels,
			Description: "Multiple price plans carry unique labels",
			Check:       checkPlanLabels,
		},
		{
			Name:        RulePriceComponents,
			Description: "Price components share an allowed currency and use known units and values",
			Check:       checkPriceComponents,
		},
	}
}

func checkSingleService(offering *usdl.Offering, _ Context) string {
	if len(offering.Services) != 1 {
		return MsgSingleService
	}
	return ""
}

func checkOpenOffering(offering *usdl.Offering, vctx Context) string {
	if !vctx.Open {
		return ""
	}
	plans := offering.Pricing.PricePlans
	if len(plans) != 1 {
		return MsgOpenPlanCount
	}
	if len(plans[0].PriceComponents) > 0 {
		return MsgOpenPricing
	}
	return ""
}

func checkPlanLabels(offering *usdl.Offering, vctx Context) string {
	plans := offering.Pricing.PricePlans
	if vctx.Open || len(plans) <= 1 {
		return ""
	}

	labels := make([]string, 0, len(plans))
	for _, plan := range plans {
		label := normalizeLabel(plan.Label)
		if label == "" {
			return MsgLabelRequired
		}
		labels = append(labels, label)
	}

	seen := make(map[string]bool, len(labels))
	var updates, developers int
	duplicated := false
	for _, label := range labels {
		switch label {
		case LabelUpdate:
			updates++
		case LabelDeveloper:
			developers++
		}
		if seen[label] {
			duplicated = true
		}
		seen[label] = true
	}

	switch {
	case updates > 1:
		return MsgDuplicateUpdate
	case developers > 1:
		return MsgDuplicateDevelop
	case duplicated:
		return MsgLabelsNotUnique
	case updates == 1 && !vctx.PriorVersionExists:
		return MsgUpdateNeedsPrior
	}
	return ""
}

func checkPriceComponents(offering *usdl.Offering, vctx Context) string {
	currency := ""
	for _, plan := range offering.Pricing.PricePlans {
		for _, comp := range plan.Entries() {
			code := strings.TrimSpace(comp.Currency)
			if !vctx.AllowedCurrencies.Accepts(code) {
				return MsgInvalidCurrency
			}
			if currency == "" {
				currency = code
			} else if !strings.EqualFold(currency, code) {
				return MsgMixedCurrencies
			}
			if !units.IsAllowed(comp.Unit) {
				return MsgUnsupportedUnit
			}
			if !validValue(comp) {
				return MsgInvalidValue
			}
		}
	}
	return ""
}

// validValue accepts non-negative decimals. A component priced by a
// function may omit its base value.
func validValue(comp usdl.PriceComponent) bool {
	value := strings.TrimSpace(comp.Value)
	if value == "" {
		return comp.Function != nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
