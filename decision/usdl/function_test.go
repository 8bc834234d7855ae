package usdl

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usdl-offering/decision/graph"
	oerrors "usdl-offering/pkg/errors"
)

const functionPrefixes = `@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix price: <http://www.linked-usdl.org/ns/usdl-pricing#> .
@prefix spin: <http://spinrdf.org/spin#> .
@prefix sp: <http://spinrdf.org/sp#> .
@prefix ex: <http://example.org/offering#> .
`

const functionVariables = `
ex:function rdf:type spin:Function ;
    spin:constraint ex:usageVar , ex:constantVar ;
    spin:body ex:body .
ex:usageVar sp:varName "usage" ; rdfs:label "Usage variable" ; price:variableType "usage" .
ex:constantVar sp:varName "constant" ; rdfs:label "Constant" ; price:variableType "constant" .
ex:usageRef sp:varName "usage" .
ex:constantRef sp:varName "constant" .
`

const functionBody = `
ex:body rdf:type sp:Select ; sp:where ex:bind .
ex:bind rdf:type sp:Bind ; sp:variable ex:result ; sp:expression ex:root .
`

var functionNode = graph.IRI("http://example.org/offering#function")

func parseFunctionDoc(t *testing.T, doc string) (*PriceFunction, error) {
	t.Helper()
	store, err := graph.Load(context.Background(), []byte(functionPrefixes+doc), "text/turtle")
	require.NoError(t, err)
	return ParseFunction(store, functionNode)
}

func TestParseFunction(t *testing.T) {
	fn, err := parseFunctionDoc(t, functionVariables+functionBody+`
ex:root sp:operation "-" ; sp:arg1 ex:usageRef ; sp:arg2 ex:half .
ex:half sp:operation "/" ; sp:arg1 ex:constantRef ; sp:arg2 "2" .
`)
	require.NoError(t, err)

	assert.Equal(t, map[string]Variable{
		"usage":    {Name: "usage", Label: "Usage variable", Type: VariableUsage},
		"constant": {Name: "constant", Label: "Constant", Type: VariableConstant},
	}, fn.Variables)

	assert.Equal(t, &Operation{
		Operator: OpSub,
		Arg1:     &VariableRef{Name: "usage"},
		Arg2: &Operation{
			Operator: OpDiv,
			Arg1:     &VariableRef{Name: "constant"},
			Arg2:     &Constant{Value: "2"},
		},
	}, fn.Expression)
}

func TestParseFunctionConstantNode(t *testing.T) {
	fn, err := parseFunctionDoc(t, functionVariables+functionBody+`
ex:root sp:operation "*" ; sp:arg1 ex:usageRef ; sp:arg2 ex:rate .
ex:rate sp:constant "0.25" .
`)
	require.NoError(t, err)

	op, ok := fn.Expression.(*Operation)
	require.True(t, ok)
	assert.Equal(t, "constant", op.Arg2.ExpressionType())
	assert.Equal(t, &Constant{Value: "0.25"}, op.Arg2)
}

func TestParseFunctionErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		reason string
	}{
		{
			name: "constant without value",
			doc: functionVariables + functionBody + `
ex:root sp:operation "+" ; sp:arg1 ex:usageRef ; sp:arg2 ex:rate .
ex:rate sp:constant ex:somewhere .
`,
			reason: "Only a value is allowed for constants",
		},
		{
			name: "invalid variable type",
			doc: `
ex:function rdf:type spin:Function ;
    spin:constraint ex:usageVar ;
    spin:body ex:body .
ex:usageVar sp:varName "usage" ; rdfs:label "Usage variable" ; price:variableType "percentage" .
ex:usageRef sp:varName "usage" .
` + functionBody + `
ex:root sp:operation "+" ; sp:arg1 ex:usageRef ; sp:arg2 ex:usageRef .
`,
			reason: "Invalid variable type",
		},
		{
			name: "invalid sparql method",
			doc: functionVariables + `
ex:body rdf:type sp:Select ; sp:where ex:filter .
ex:filter rdf:type sp:Filter ; sp:expression ex:root .
ex:root sp:operation "+" ; sp:arg1 ex:usageRef ; sp:arg2 ex:usageRef .
`,
			reason: "Invalid SPARQL method",
		},
		{
			name: "two binds",
			doc: functionVariables + functionBody + `
ex:body sp:where ex:secondBind .
ex:secondBind rdf:type sp:Bind ; sp:expression ex:root .
ex:root sp:operation "+" ; sp:arg1 ex:usageRef ; sp:arg2 ex:usageRef .
`,
			reason: "Only a bind expression is allowed",
		},
		{
			name:   "no bind",
			doc:    functionVariables + `ex:body rdf:type sp:Select .`,
			reason: "Only a bind expression is allowed",
		},
		{
			name: "variable not declared",
			doc: functionVariables + functionBody + `
ex:root sp:operation "+" ; sp:arg1 ex:usageRef ; sp:arg2 ex:unknownRef .
ex:unknownRef sp:varName "unknown" .
`,
			reason: "Variable not declared",
		},
		{
			name: "duplicated first argument",
			doc: functionVariables + functionBody + `
ex:root sp:operation "+" ; sp:arg1 ex:usageRef , ex:constantRef ; sp:arg2 ex:usageRef .
`,
			reason: "Duplicated expression",
		},
		{
			name: "duplicated second argument",
			doc: functionVariables + functionBody + `
ex:root sp:operation "+" ; sp:arg1 ex:usageRef ; sp:arg2 ex:usageRef , ex:constantRef .
`,
			reason: "Duplicated expression",
		},
		{
			name: "invalid predicate",
			doc: functionVariables + functionBody + `
ex:root sp:operation "+" ; sp:arg1 ex:usageRef ; sp:arg2 ex:usageRef ; sp:modifier "x" .
`,
			reason: "Invalid predicate",
		},
		{
			name: "leaf with extra relation",
			doc: functionVariables + functionBody + `
ex:root sp:operation "+" ; sp:arg1 ex:usageRef ; sp:arg2 ex:mixed .
ex:mixed sp:varName "usage" ; sp:arg1 ex:constantRef .
`,
			reason: "Invalid predicate",
		},
		{
			name: "missing operation",
			doc: functionVariables + functionBody + `
ex:root sp:arg1 ex:usageRef ; sp:arg2 ex:usageRef .
`,
			reason: "An expression must contain an operation per level",
		},
		{
			name: "two operations",
			doc: functionVariables + functionBody + `
ex:root sp:operation "+" , "-" ; sp:arg1 ex:usageRef ; sp:arg2 ex:usageRef .
`,
			reason: "An expression must contain an operation per level",
		},
		{
			name: "invalid operation",
			doc: functionVariables + functionBody + `
ex:root sp:operation "%" ; sp:arg1 ex:usageRef ; sp:arg2 ex:usageRef .
`,
			reason: "Invalid operation",
		},
		{
			name: "missing argument",
			doc: functionVariables + functionBody + `
ex:root sp:operation "+" ; sp:arg1 ex:usageRef .
`,
			reason: "An operation requires two arguments",
		},
		{
			name: "cyclic expression",
			doc: functionVariables + functionBody + `
ex:root sp:operation "+" ; sp:arg1 ex:usageRef ; sp:arg2 ex:inner .
ex:inner sp:operation "*" ; sp:arg1 ex:root ; sp:arg2 ex:usageRef .
`,
			reason: "Cyclic expression",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFunctionDoc(t, tt.doc)
			require.Error(t, err)
			assert.True(t, oerrors.IsExpression(err))
			assert.Equal(t, "Invalid price function: "+tt.reason, err.Error())
		})
	}
}

func TestParseFunctionDepthLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString(functionVariables)
	b.WriteString(`
ex:body rdf:type sp:Select ; sp:where ex:bind .
ex:bind rdf:type sp:Bind ; sp:expression ex:e0 .
`)
	for i := 0; i < 70; i++ {
		fmt.Fprintf(&b, "ex:e%d sp:operation \"+\" ; sp:arg1 ex:e%d ; sp:arg2 \"1\" .\n", i, i+1)
	}
	b.WriteString("ex:e70 sp:varName \"usage\" .\n")

	_, err := parseFunctionDoc(t, b.String())
	require.Error(t, err)
	assert.Equal(t, "Invalid price function: Expression too deep", err.Error())
}

func TestFunctionNodes(t *testing.T) {
	store, err := graph.Load(context.Background(), readFixture(t, "price_function.ttl"), "text/turtle")
	require.NoError(t, err)
	assert.Equal(t, []graph.Term{functionNode}, FunctionNodes(store))
}

func TestParseFunctionSharedOperandLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString(functionVariables)
	b.WriteString(`
ex:body rdf:type sp:Select ; sp:where ex:bind .
ex:bind rdf:type sp:Bind ; sp:expression ex:e0 .
`)
	// each level references the next one twice, so the expanded tree doubles per level
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "ex:e%d sp:operation \"*\" ; sp:arg1 ex:e%d ; sp:arg2 ex:e%d .\n", i, i+1, i+1)
	}
	b.WriteString("ex:e40 sp:varName \"usage\" .\n")

	_, err := parseFunctionDoc(t, b.String())
	require.Error(t, err)
	assert.True(t, oerrors.IsExpression(err))
	assert.Equal(t, "Invalid price function: Expression too large", err.Error())
}

func TestParseFunctionSharedOperandWithinLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString(functionVariables)
	b.WriteString(`
ex:body rdf:type sp:Select ; sp:where ex:bind .
ex:bind rdf:type sp:Bind ; sp:expression ex:e0 .
`)
	for i := 0; i < 4; i++ {
		fmt.Fprintf(&b, "ex:e%d sp:operation \"+\" ; sp:arg1 ex:e%d ; sp:arg2 ex:e%d .\n", i, i+1, i+1)
	}
	b.WriteString("ex:e4 sp:varName \"usage\" .\n")

	fn, err := parseFunctionDoc(t, b.String())
	require.NoError(t, err)
	op := fn.Expression.(*Operation)
	assert.Equal(t, op.Arg1, op.Arg2)
}
