package processor

import (
	"fmt"
	"strings"

	goeval "github.com/edisonguo/govaluate"
)

const (
	VarGeoTransform = "geotransform"
	VarProjection   = "projection"
	VarBands        = "bands"
)

var policyVariables = map[string]struct{}{VarGeoTransform: struct{}{}, VarProjection: struct{}{}, VarBands: struct{}{}}

// Policy aggregates the per-comparator verdicts of a pair into one
// pass/fail decision, e.g. "geotransform && projection && bands".
type Policy struct {
	text string
	expr *goeval.EvaluableExpression
}

func NewPolicy(text string) (*Policy, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return nil, fmt.Errorf("policy expression is empty")
	}

	expr, err := goeval.NewEvaluableExpression(text)
	if err != nil {
		return nil, fmt.Errorf("policy expression: %v", err)
	}

	for _, token := range expr.Tokens() {
		if token.Kind == goeval.VARIABLE {
			varName, ok := token.Value.(string)
			if !ok {
				return nil, fmt.Errorf("variable token '%v' failed to cast string", token.Value)
			}
			if _, found := policyVariables[varName]; !found {
				return nil, fmt.Errorf("variable %v is not supported. Valid variables are %v, %v, %v", varName, VarGeoTransform, VarProjection, VarBands)
			}
		}
	}

	p := &Policy{text: text, expr: expr}
	if _, err := p.Evaluate(true, true, true); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Policy) String() string {
	return p.text
}

func (p *Policy) Evaluate(geoTransform, projection, bands bool) (bool, error) {
	parameters := map[string]interface{}{VarGeoTransform: geoTransform, VarProjection: projection, VarBands: bands}
	result, err := p.expr.Evaluate(parameters)
	if err != nil {
		return false, fmt.Errorf("policy expression: %v", err)
	}

	val, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("policy expression: result '%v' is not boolean", result)
	}
	return val, nil
}
