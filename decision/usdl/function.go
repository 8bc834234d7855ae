package usdl

import (
	"strings"

	"usdl-offering/decision/graph"
	oerrors "usdl-offering/pkg/errors"
)

const (
	// maxExpressionDepth bounds the nesting of a price function expression.
	maxExpressionDepth = 64
	// maxExpressionNodes bounds the size of the expanded tree. Operands shared
	// between arguments are expanded once per reference.
	maxExpressionNodes = 1024
)

// ParseFunction reads the price function rooted at node: its declared
// variables and the single bind expression of its body.
func ParseFunction(g graph.Graph, node graph.Term) (*PriceFunction, error) {
	fp := &functionParser{
		g:      g,
		onPath: make(map[graph.Term]bool),
	}

	vars, err := fp.variables(node)
	if err != nil {
		return nil, err
	}
	fp.vars = vars

	root, err := fp.bindExpression(node)
	if err != nil {
		return nil, err
	}
	expr, err := fp.expression(root, 1)
	if err != nil {
		return nil, err
	}
	return &PriceFunction{Variables: vars, Expression: expr}, nil
}

type functionParser struct {
	g      graph.Graph
	vars   map[string]Variable
	onPath map[graph.Term]bool
	nodes  int
}

func (fp *functionParser) variables(node graph.Term) (map[string]Variable, error) {
	vars := make(map[string]Variable)
	for _, c := range fp.g.Objects(node, spinConstraint) {
		names := fp.g.Objects(c, spVarName)
		if len(names) != 1 {
			return nil, oerrors.NewExpressionError("Invalid predicate")
		}
		name := fp.g.Literal(names[0])

		var vt VariableType
		if types := fp.g.Objects(c, priceVariableType); len(types) == 1 {
			vt = VariableType(localName(types[0], fp.g.Literal(types[0])))
		}
		if vt != VariableUsage && vt != VariableConstant {
			return nil, oerrors.NewExpressionError("Invalid variable type")
		}
		if _, dup := vars[name]; dup {
			return nil, oerrors.NewExpressionError("Variable declared twice")
		}
		vars[name] = Variable{
			Name:  name,
			Label: fp.field(c, rdfsLabel),
			Type:  vt,
		}
	}
	return vars, nil
}

// bindExpression returns the expression node of the only bind statement of
// the function body.
func (fp *functionParser) bindExpression(node graph.Term) (graph.Term, error) {
	var binds []graph.Term
	for _, body := range fp.g.Objects(node, spinBody) {
		for _, stmt := range fp.g.Objects(body, spWhere) {
			if !fp.hasType(stmt, spBind) {
				return graph.Term{}, oerrors.NewExpressionError("Invalid SPARQL method")
			}
			binds = append(binds, stmt)
		}
	}
	if len(binds) != 1 {
		return graph.Term{}, oerrors.NewExpressionError("Only a bind expression is allowed")
	}
	bind := binds[0]

	for _, p := range fp.g.Predicates(bind) {
		if p != rdfType && p != spExpression && p != spVariable {
			return graph.Term{}, oerrors.NewExpressionError("Invalid predicate")
		}
	}
	exprs := fp.g.Objects(bind, spExpression)
	switch len(exprs) {
	case 0:
		return graph.Term{}, oerrors.NewExpressionError("An expression must contain an operation per level")
	case 1:
		return exprs[0], nil
	default:
		return graph.Term{}, oerrors.NewExpressionError("Duplicated expression")
	}
}

func (fp *functionParser) expression(node graph.Term, depth int) (Expression, error) {
	if depth > maxExpressionDepth {
		return nil, oerrors.NewExpressionError("Expression too deep")
	}
	fp.nodes++
	if fp.nodes > maxExpressionNodes {
		return nil, oerrors.NewExpressionError("Expression too large")
	}
	if node.IsLiteral() {
		return &Constant{Value: node.Value}, nil
	}
	if fp.onPath[node] {
		return nil, oerrors.NewExpressionError("Cyclic expression")
	}
	fp.onPath[node] = true
	defer delete(fp.onPath, node)

	preds := fp.predicates(node)
	switch {
	case preds[spVarName]:
		return fp.variableRef(node, preds)
	case preds[spConstant]:
		return fp.constant(node, preds)
	default:
		return fp.operation(node, preds, depth)
	}
}

func (fp *functionParser) variableRef(node graph.Term, preds map[graph.Term]bool) (Expression, error) {
	names := fp.g.Objects(node, spVarName)
	if len(preds) != 1 || len(names) != 1 {
		return nil, oerrors.NewExpressionError("Invalid predicate")
	}
	name := fp.g.Literal(names[0])
	if _, ok := fp.vars[name]; !ok {
		return nil, oerrors.NewExpressionError("Variable not declared")
	}
	return &VariableRef{Name: name}, nil
}

func (fp *functionParser) constant(node graph.Term, preds map[graph.Term]bool) (Expression, error) {
	if len(preds) != 1 {
		return nil, oerrors.NewExpressionError("Invalid predicate")
	}
	values := fp.g.Objects(node, spConstant)
	if len(values) != 1 || !values[0].IsLiteral() {
		return nil, oerrors.NewExpressionError("Only a value is allowed for constants")
	}
	return &Constant{Value: values[0].Value}, nil
}

func (fp *functionParser) operation(node graph.Term, preds map[graph.Term]bool, depth int) (Expression, error) {
	for p := range preds {
		if p != spOperation && p != spArg1 && p != spArg2 {
			return nil, oerrors.NewExpressionError("Invalid predicate")
		}
	}

	ops := fp.g.Objects(node, spOperation)
	if len(ops) != 1 {
		return nil, oerrors.NewExpressionError("An expression must contain an operation per level")
	}
	op := Operator(strings.TrimSpace(fp.g.Literal(ops[0])))
	if !op.valid() {
		return nil, oerrors.NewExpressionError("Invalid operation")
	}

	arg1, err := fp.argument(node, spArg1, depth)
	if err != nil {
		return nil, err
	}
	arg2, err := fp.argument(node, spArg2, depth)
	if err != nil {
		return nil, err
	}
	return &Operation{Operator: op, Arg1: arg1, Arg2: arg2}, nil
}

func (fp *functionParser) argument(node, predicate graph.Term, depth int) (Expression, error) {
	args := fp.g.Objects(node, predicate)
	switch len(args) {
	case 0:
		return nil, oerrors.NewExpressionError("An operation requires two arguments")
	case 1:
		return fp.expression(args[0], depth+1)
	default:
		return nil, oerrors.NewExpressionError("Duplicated expression")
	}
}

// predicates returns the relations of node other than rdf:type.
func (fp *functionParser) predicates(node graph.Term) map[graph.Term]bool {
	out := make(map[graph.Term]bool)
	for _, p := range fp.g.Predicates(node) {
		if p != rdfType {
			out[p] = true
		}
	}
	return out
}

func (fp *functionParser) field(node, predicate graph.Term) string {
	return walker{g: fp.g}.field(node, predicate)
}

func (fp *functionParser) hasType(node, class graph.Term) bool {
	return walker{g: fp.g}.hasType(node, class)
}

// localName returns the fragment or last path segment of an IRI term, or
// fallback for any other term.
func localName(t graph.Term, fallback string) string {
	if !t.IsIRI() {
		return fallback
	}
	if i := strings.LastIndexAny(t.Value, "#/"); i >= 0 {
		return t.Value[i+1:]
	}
	return t.Value
}
