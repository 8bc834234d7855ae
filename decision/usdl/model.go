package usdl

// Offering is the structured form of an offering description.
type Offering struct {
	Services []Service `json:"services_included"`
	Pricing  Pricing   `json:"pricing"`
}

// Service is a service bundled in an offering.
type Service struct {
	Name             string                `json:"name"`
	ShortDescription string                `json:"short_description"`
	LongDescription  string                `json:"long_description"`
	Version          string                `json:"version"`
	Vendor           string                `json:"vendor,omitempty"`
	Created          string                `json:"created,omitempty"`
	Modified         string                `json:"modified,omitempty"`
	ImageURL         string                `json:"image_url,omitempty"`
	Legal            []LegalTerm           `json:"legal"`
	SLA              []ServiceLevel        `json:"sla"`
	Interactions     []InteractionProtocol `json:"interactions"`
}

// Pricing groups the price plans of an offering.
type Pricing struct {
	Title      string      `json:"title"`
	PricePlans []PricePlan `json:"price_plans"`
}

// PricePlan is a named pricing alternative.
type PricePlan struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Label           string           `json:"label,omitempty"` // empty when absent
	PriceComponents []PriceComponent `json:"price_components"`
	Deductions      []PriceComponent `json:"deductions"`
	Taxes           []PriceComponent `json:"taxes"`
}

// Entries returns every component, deduction and tax of the plan, in that order.
func (p PricePlan) Entries() []PriceComponent {
	out := make([]PriceComponent, 0, len(p.PriceComponents)+len(p.Deductions)+len(p.Taxes))
	out = append(out, p.PriceComponents...)
	out = append(out, p.Deductions...)
	return append(out, p.Taxes...)
}

// PriceComponent is a price component, deduction or tax.
type PriceComponent struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Value       string         `json:"value"`
	Currency    string         `json:"currency"`
	Unit        string         `json:"unit"`
	Function    *PriceFunction `json:"price_function,omitempty"`
}

// LegalTerm is a legal condition attached to a service.
type LegalTerm struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Clauses     []Clause `json:"clauses"`
}

// Clause is a single clause of a legal condition.
type Clause struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// ServiceLevel is a service level of a service's level profile.
type ServiceLevel struct {
	Name        string          `json:"name"`
	Expressions []SLAExpression `json:"slaExpresions"`
}

// SLAExpression describes a guarantee in terms of variables.
type SLAExpression struct {
	Description string        `json:"description"`
	Variables   []SLAVariable `json:"variables"`
}

// SLAVariable is a variable of a service level expression with its default value.
type SLAVariable struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// InteractionProtocol describes how a service is consumed.
type InteractionProtocol struct {
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	TechnicalInterface string        `json:"technical_interface"`
	Interactions       []Interaction `json:"interactions"`
}

// Interaction is a single step of an interaction protocol.
type Interaction struct {
	Title              string                 `json:"title"`
	Description        string                 `json:"description"`
	InterfaceOperation string                 `json:"interface_operation"`
	Inputs             []InteractionParameter `json:"inputs"`
	Outputs            []InteractionParameter `json:"outputs"`
}

// InteractionParameter is an input or output of an interaction.
type InteractionParameter struct {
	Label            string `json:"label"`
	Description      string `json:"description"`
	InterfaceElement string `json:"interface_element"`
}
