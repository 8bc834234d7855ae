package usdl

import "encoding/json"

// VariableType tags a declared price function variable.
type VariableType string

const (
	VariableUsage    VariableType = "usage"
	VariableConstant VariableType = "constant"
)

// Variable is a variable declared by a price function.
type Variable struct {
	Name  string       `json:"-"`
	Label string       `json:"label"`
	Type  VariableType `json:"type"`
}

// PriceFunction is a usage-dependent price definition.
type PriceFunction struct {
	Variables  map[string]Variable `json:"variables"`
	Expression Expression          `json:"function"`
}

// Expression is a node of a price function expression tree: *Operation,
// *VariableRef or *Constant.
type Expression interface {
	ExpressionType() string
}

// Operator is a binary arithmetic operator.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
)

func (o Operator) valid() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// Operation applies Operator to two sub-expressions.
type Operation struct {
	Operator Operator   `json:"operation"`
	Arg1     Expression `json:"arg1"`
	Arg2     Expression `json:"arg2"`
}

func (e *Operation) ExpressionType() string { return "operation" }

// VariableRef references a declared variable by name.
type VariableRef struct {
	Name string
}

func (e *VariableRef) ExpressionType() string { return "variable" }

// MarshalJSON renders a reference as the bare variable name.
func (e *VariableRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Name)
}

// Constant is a literal value leaf.
type Constant struct {
	Value string
}

func (e *Constant) ExpressionType() string { return "constant" }

// MarshalJSON renders a constant as its lexical value.
func (e *Constant) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Value)
}
