package expr

import "encoding/json"

// Node is one element of a structural expression tree. The set of
// implementations is closed: Literal, Group, Fraction, Power, Root and
// Absolute. Nodes are never mutated after the parser returns them.
type Node interface {
	// Kind returns the node's type tag, as used in JSON.
	Kind() string
	node()
}

// Literal is a number or a bare operator symbol (+ - * / ^).
type Literal struct {
	Value string
}

// Group is a parenthesized sub-expression.
type Group struct {
	Content []Node
}

// Fraction is a stacked numerator over denominator.
type Fraction struct {
	Numerator   []Node
	Denominator []Node
}

// Power raises Base to Exponent.
type Power struct {
	Base     []Node
	Exponent []Node
}

// Root is a square root.
type Root struct {
	Content []Node
}

// Absolute is an absolute value |…|.
type Absolute struct {
	Content []Node
}

func (Literal) Kind() string  { return "literal" }
func (Group) Kind() string    { return "group" }
func (Fraction) Kind() string { return "fraction" }
func (Power) Kind() string    { return "power" }
func (Root) Kind() string     { return "root" }
func (Absolute) Kind() string { return "absolute" }

func (Literal) node()  {}
func (Group) node()    {}
func (Fraction) node() {}
func (Power) node()    {}
func (Root) node()     {}
func (Absolute) node() {}

// IsOperator reports whether n is an operator literal.
func IsOperator(n Node) bool {
	l, ok := n.(Literal)
	return ok && isOperatorText(l.Value)
}

func isOperatorText(s string) bool {
	switch s {
	case "+", "-", "*", "/", "^":
		return true
	}
	return false
}

func isNumberLiteral(n Node) bool {
	l, ok := n.(Literal)
	return ok && !isOperatorText(l.Value)
}

func (n Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{n.Kind(), n.Value})
}

func (n Group) MarshalJSON() ([]byte, error) {
	return marshalContent(n.Kind(), n.Content)
}

func (n Root) MarshalJSON() ([]byte, error) {
	return marshalContent(n.Kind(), n.Content)
}

func (n Absolute) MarshalJSON() ([]byte, error) {
	return marshalContent(n.Kind(), n.Content)
}

func (n Fraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string `json:"type"`
		Numerator   []Node `json:"numerator"`
		Denominator []Node `json:"denominator"`
	}{n.Kind(), n.Numerator, n.Denominator})
}

func (n Power) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Base     []Node `json:"base"`
		Exponent []Node `json:"exponent"`
	}{n.Kind(), n.Base, n.Exponent})
}

func marshalContent(kind string, content []Node) ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Content []Node `json:"content"`
	}{kind, content})
}
