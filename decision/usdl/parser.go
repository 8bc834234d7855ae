// Package usdl turns an RDF offering description into an Offering value.
// All offering inputs flow through here before pricing validation.
package usdl

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"usdl-offering/decision/graph"
	oerrors "usdl-offering/pkg/errors"
)

// Parser parses offering descriptions.
type Parser struct {
	// MaxTriples caps the size of a single document, 0 keeps the graph default.
	MaxTriples int64
}

// NewParser creates a new offering parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data with the default parser and walks the resulting graph.
func Parse(ctx context.Context, data []byte, contentType string) (*Offering, error) {
	return NewParser().Parse(ctx, data, contentType)
}

// ParseFile parses an offering description file
func (p *Parser) ParseFile(ctx context.Context, path, contentType string) (*Offering, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read offering file: %w", err)
	}
	return p.Parse(ctx, data, contentType)
}

// Parse decodes data according to contentType and walks the resulting graph.
// Unsupported content types and undecodable documents yield a format error.
func (p *Parser) Parse(ctx context.Context, data []byte, contentType string) (*Offering, error) {
	g, err := p.Load(ctx, data, contentType)
	if err != nil {
		return nil, err
	}
	offering, err := ParseGraph(g)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().
		Int("services", len(offering.Services)).
		Int("price_plans", len(offering.Pricing.PricePlans)).
		Msg("offering parsed")
	return offering, nil
}

// Load decodes data into a graph, mapping every decode failure to a format error.
func (p *Parser) Load(ctx context.Context, data []byte, contentType string) (*graph.Store, error) {
	var opts []graph.Option
	if p.MaxTriples > 0 {
		opts = append(opts, graph.WithMaxTriples(p.MaxTriples))
	}
	g, err := graph.Load(ctx, data, contentType, opts...)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, oerrors.NewFormatError(err)
	}
	return g, nil
}

// ParseGraph walks an already loaded graph.
func ParseGraph(g graph.Graph) (*Offering, error) {
	w := walker{g: g}
	return w.offering()
}

// FunctionNodes returns the price function nodes declared in g.
func FunctionNodes(g graph.Graph) []graph.Term {
	return g.Subjects(rdfType, spinFunction)
}

type walker struct {
	g graph.Graph
}

func (w walker) offering() (*Offering, error) {
	offerings := w.g.Subjects(rdfType, usdlServiceOffering)
	if len(offerings) == 0 {
		return nil, oerrors.NewSemanticError(oerrors.CodeNoOffering, "No service offering has been defined")
	}
	node := offerings[0]

	serviceNodes := w.g.Objects(node, usdlIncludes)
	if len(serviceNodes) == 0 {
		return nil, oerrors.NewSemanticError(oerrors.CodeNoServices, "No services included")
	}

	offering := &Offering{
		Services: make([]Service, 0, len(serviceNodes)),
		Pricing: Pricing{
			Title:      w.field(node, dcTitle),
			PricePlans: make([]PricePlan, 0),
		},
	}
	for _, s := range serviceNodes {
		offering.Services = append(offering.Services, w.service(s))
	}
	for _, pp := range w.g.Objects(node, usdlHasPricePlan) {
		plan, err := w.pricePlan(pp)
		if err != nil {
			return nil, err
		}
		offering.Pricing.PricePlans = append(offering.Pricing.PricePlans, plan)
	}
	return offering, nil
}

func (w walker) service(node graph.Term) Service {
	s := Service{
		Name:             w.field(node, dcTitle),
		ShortDescription: w.field(node, dcAbstract),
		LongDescription:  w.field(node, dcDescription),
		Version:          w.field(node, usdlVersionInfo),
		Created:          w.field(node, dcCreated),
		Modified:         w.field(node, dcModified),
		ImageURL:         w.field(node, foafDepiction),
		Legal:            w.legal(node),
		SLA:              w.serviceLevels(node),
		Interactions:     w.interactionProtocols(node),
	}
	if vendor, ok := w.ref(node, usdlHasProvider); ok {
		s.Vendor = w.field(vendor, foafName)
	}
	return s
}

func (w walker) pricePlan(node graph.Term) (PricePlan, error) {
	plan := PricePlan{
		Title:           w.field(node, dcTitle),
		Description:     w.field(node, dcDescription),
		Label:           w.field(node, rdfsLabel),
		PriceComponents: make([]PriceComponent, 0),
		Deductions:      make([]PriceComponent, 0),
		Taxes:           make([]PriceComponent, 0),
	}

	for _, pc := range w.g.Objects(node, priceHasPriceComponent) {
		comp, err := w.priceComponent(pc)
		if err != nil {
			return PricePlan{}, err
		}
		if w.hasType(pc, priceDeduction) {
			plan.Deductions = append(plan.Deductions, comp)
		} else {
			plan.PriceComponents = append(plan.PriceComponents, comp)
		}
	}
	for _, tax := range w.g.Objects(node, priceHasTax) {
		comp, err := w.priceComponent(tax)
		if err != nil {
			return PricePlan{}, err
		}
		plan.Taxes = append(plan.Taxes, comp)
	}
	return plan, nil
}

// priceComponent reads components, deductions and taxes alike.
func (w walker) priceComponent(node graph.Term) (PriceComponent, error) {
	comp := PriceComponent{
		Title:       w.field(node, dcTitle),
		Description: w.field(node, dcDescription),
	}
	if spec, ok := w.ref(node, priceHasPrice); ok {
		comp.Value = w.field(spec, grHasCurrencyValue)
		comp.Currency = w.field(spec, grHasCurrency)
		comp.Unit = w.field(spec, grHasUnit)
	}
	if fn, ok := w.ref(node, priceHasPriceFunction); ok {
		parsed, err := ParseFunction(w.g, fn)
		if err != nil {
			return PriceComponent{}, err
		}
		comp.Function = parsed
	}
	return comp, nil
}

func (w walker) legal(service graph.Term) []LegalTerm {
	result := make([]LegalTerm, 0)
	for _, node := range w.g.Objects(service, usdlHasLegalCondition) {
		term := LegalTerm{
			Label:       w.field(node, dcTitle),
			Description: w.field(node, dcDescription),
			Clauses:     make([]Clause, 0),
		}
		for _, c := range w.g.Objects(node, legalHasClause) {
			term.Clauses = append(term.Clauses, Clause{
				Name: w.field(c, legalName),
				Text: w.field(c, legalText),
			})
		}
		result = append(result, term)
	}
	return result
}

func (w walker) serviceLevels(service graph.Term) []ServiceLevel {
	result := make([]ServiceLevel, 0)
	for _, profile := range w.g.Objects(service, usdlHasServiceLevels) {
		for _, sl := range w.g.Objects(profile, slaHasServiceLevel) {
			level := ServiceLevel{
				Name:        w.field(sl, dcTitle),
				Expressions: make([]SLAExpression, 0),
			}
			for _, exp := range w.g.Objects(sl, slaExpression) {
				level.Expressions = append(level.Expressions, w.slaExpression(exp))
			}
			result = append(result, level)
		}
	}
	return result
}

func (w walker) slaExpression(node graph.Term) SLAExpression {
	exp := SLAExpression{
		Description: w.field(node, dcDescription),
		Variables:   make([]SLAVariable, 0),
	}
	for _, v := range w.g.Objects(node, slaHasVariable) {
		variable := SLAVariable{Label: w.field(v, rdfsLabel)}
		if def, ok := w.ref(v, slaHasDefault); ok {
			variable.Value = w.field(def, grHasValue)
			variable.Unit = w.field(def, grHasUnit)
		}
		exp.Variables = append(exp.Variables, variable)
	}
	return exp
}

func (w walker) interactionProtocols(service graph.Term) []InteractionProtocol {
	result := make([]InteractionProtocol, 0)
	for _, node := range w.g.Objects(service, usdlHasInteractionProto) {
		protocol := InteractionProtocol{
			Title:              w.field(node, dcTitle),
			Description:        w.field(node, dcDescription),
			TechnicalInterface: w.field(node, usdlHasTechnicalIface),
			Interactions:       make([]Interaction, 0),
		}
		for _, in := range w.g.Objects(node, usdlHasInteraction) {
			protocol.Interactions = append(protocol.Interactions, Interaction{
				Title:              w.field(in, dcTitle),
				Description:        w.field(in, dcDescription),
				InterfaceOperation: w.field(in, usdlHasInterfaceOp),
				Inputs:             w.parameters(in, usdlReceives),
				Outputs:            w.parameters(in, usdlYields),
			})
		}
		result = append(result, protocol)
	}
	return result
}

func (w walker) parameters(interaction, predicate graph.Term) []InteractionParameter {
	result := make([]InteractionParameter, 0)
	for _, p := range w.g.Objects(interaction, predicate) {
		result = append(result, InteractionParameter{
			Label:            w.field(p, rdfsLabel),
			Description:      w.field(p, dcDescription),
			InterfaceElement: w.field(p, usdlHasInterfaceElement),
		})
	}
	return result
}

// field returns the value of the first object of (node, predicate), or "".
func (w walker) field(node, predicate graph.Term) string {
	objs := w.g.Objects(node, predicate)
	if len(objs) == 0 {
		return ""
	}
	return w.g.Literal(objs[0])
}

func (w walker) ref(node, predicate graph.Term) (graph.Term, bool) {
	objs := w.g.Objects(node, predicate)
	if len(objs) == 0 {
		return graph.Term{}, false
	}
	return objs[0], true
}

func (w walker) hasType(node, class graph.Term) bool {
	for _, t := range w.g.Objects(node, rdfType) {
		if t == class {
			return true
		}
	}
	return false
}
