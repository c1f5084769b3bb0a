package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidRule = errors.New("invalid segment rule")

// Scalar is a rule operand or profile value: either a string or a number.
type Scalar struct {
	Str   string
	Num   float64
	IsNum bool
}

func String(s string) Scalar  { return Scalar{Str: s} }
func Number(n float64) Scalar { return Scalar{Num: n, IsNum: true} }

func (s Scalar) Equal(o Scalar) bool {
	if s.IsNum != o.IsNum {
		return false
	}
	if s.IsNum {
		return s.Num == o.Num
	}
	return s.Str == o.Str
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.IsNum {
		return json.Marshal(s.Num)
	}
	return json.Marshal(s.Str)
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*s = Number(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("%w: scalar must be a string or number", ErrInvalidRule)
	}
	*s = String(str)
	return nil
}

func (s Scalar) String() string {
	if s.IsNum {
		return strconv.FormatFloat(s.Num, 'f', -1, 64)
	}
	return s.Str
}

// Profile is the attribute bag a rule is evaluated against. Attributes are
// multi-valued; a predicate holds when any value satisfies it.
type Profile map[string][]Scalar

func (p Profile) Add(attr string, v Scalar) {
	for _, existing := range p[attr] {
		if existing.Equal(v) {
			return
		}
	}
	p[attr] = append(p[attr], v)
}

// Set replaces all values of attr.
func (p Profile) Set(attr string, v Scalar) {
	p[attr] = []Scalar{v}
}

// Rule is a node of the segment predicate tree.
type Rule interface {
	Match(p Profile) bool
	Validate() error
}

type Equals struct {
	Attr  string
	Value Scalar
}

type InSet struct {
	Attr   string
	Values []Scalar
}

// Range holds for numeric values in [Min, Max). A nil bound is open.
type Range struct {
	Attr string
	Min  *float64
	Max  *float64
}

type And struct{ Rules []Rule }

type Or struct{ Rules []Rule }

func (r Equals) Match(p Profile) bool {
	for _, v := range p[r.Attr] {
		if v.Equal(r.Value) {
			return true
		}
	}
	return false
}

func (r InSet) Match(p Profile) bool {
	for _, v := range p[r.Attr] {
		for _, want := range r.Values {
			if v.Equal(want) {
				return true
			}
		}
	}
	return false
}

func (r Range) Match(p Profile) bool {
	for _, v := range p[r.Attr] {
		if !v.IsNum {
			continue
		}
		if r.Min != nil && v.Num < *r.Min {
			continue
		}
		if r.Max != nil && v.Num >= *r.Max {
			continue
		}
		return true
	}
	return false
}

func (r And) Match(p Profile) bool {
	for _, sub := range r.Rules {
		if !sub.Match(p) {
			return false
		}
	}
	return true
}

func (r Or) Match(p Profile) bool {
	for _, sub := range r.Rules {
		if sub.Match(p) {
			return true
		}
	}
	return false
}

func (r Equals) Validate() error {
	if r.Attr == "" {
		return fmt.Errorf("%w: eq requires attr", ErrInvalidRule)
	}
	return nil
}

func (r InSet) Validate() error {
	if r.Attr == "" || len(r.Values) == 0 {
		return fmt.Errorf("%w: in requires attr and values", ErrInvalidRule)
	}
	return nil
}

func (r Range) Validate() error {
	if r.Attr == "" {
		return fmt.Errorf("%w: range requires attr", ErrInvalidRule)
	}
	if r.Min == nil && r.Max == nil {
		return fmt.Errorf("%w: range requires min or max", ErrInvalidRule)
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("%w: range min > max", ErrInvalidRule)
	}
	return nil
}

func (r And) Validate() error { return validateAll("and", r.Rules) }

func (r Or) Validate() error { return validateAll("or", r.Rules) }

func validateAll(op string, rules []Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("%w: %s requires rules", ErrInvalidRule, op)
	}
	for _, sub := range rules {
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ruleJSON is the wire shape of every node, discriminated by Op.
type ruleJSON struct {
	Op     string            `json:"op"`
	Attr   string            `json:"attr,omitempty"`
	Value  *Scalar           `json:"value,omitempty"`
	Values []Scalar          `json:"values,omitempty"`
	Min    *float64          `json:"min,omitempty"`
	Max    *float64          `json:"max,omitempty"`
	Rules  []json.RawMessage `json:"rules,omitempty"`
}

// ParseRule decodes and validates a JSON rule tree. Empty input or JSON null
// yields a nil rule.
func ParseRule(data []byte) (Rule, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	r, err := decodeRule(data)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func decodeRule(data []byte) (Rule, error) {
	var raw ruleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	switch raw.Op {
	case "eq":
		if raw.Value == nil {
			return nil, fmt.Errorf("%w: eq requires value", ErrInvalidRule)
		}
		return Equals{Attr: raw.Attr, Value: *raw.Value}, nil
	case "in":
		return InSet{Attr: raw.Attr, Values: raw.Values}, nil
	case "range":
		return Range{Attr: raw.Attr, Min: raw.Min, Max: raw.Max}, nil
	case "and", "or":
		subs := make([]Rule, 0, len(raw.Rules))
		for _, msg := range raw.Rules {
			sub, err := decodeRule(msg)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
		if raw.Op == "and" {
			return And{Rules: subs}, nil
		}
		return Or{Rules: subs}, nil
	default:
		return nil, fmt.Errorf("%w: unknown op %q", ErrInvalidRule, raw.Op)
	}
}

// MarshalRule encodes a rule tree; a nil rule encodes as JSON null.
func MarshalRule(r Rule) ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	node, err := encodeRule(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(node)
}

func encodeRule(r Rule) (ruleJSON, error) {
	switch v := r.(type) {
	case Equals:
		val := v.Value
		return ruleJSON{Op: "eq", Attr: v.Attr, Value: &val}, nil
	case InSet:
		return ruleJSON{Op: "in", Attr: v.Attr, Values: v.Values}, nil
	case Range:
		return ruleJSON{Op: "range", Attr: v.Attr, Min: v.Min, Max: v.Max}, nil
	case And:
		return encodeGroup("and", v.Rules)
	case Or:
		return encodeGroup("or", v.Rules)
	default:
		return ruleJSON{}, fmt.Errorf("%w: unsupported node %T", ErrInvalidRule, r)
	}
}

func encodeGroup(op string, rules []Rule) (ruleJSON, error) {
	node := ruleJSON{Op: op, Rules: make([]json.RawMessage, 0, len(rules))}
	for _, sub := range rules {
		b, err := MarshalRule(sub)
		if err != nil {
			return ruleJSON{}, err
		}
		node.Rules = append(node.Rules, b)
	}
	return node, nil
}
