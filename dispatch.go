// FILE: lixenwraith/mdconfig/dispatch.go
package mdconfig

import (
	"errors"
	"fmt"
)

// Kind is the element type of a declared numeric family.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RuleVariant selects how a key's value is coerced.
type RuleVariant int

const (
	// RuleDefault produces a text TypedList.
	RuleDefault RuleVariant = iota
	// RuleMulti produces a TypedList of the rule's Kind.
	RuleMulti
	// RuleSingleton produces a Singleton of the rule's Kind.
	RuleSingleton
	// RuleCustom delegates to a dialect-supplied CustomRule.
	RuleCustom
)

func (v RuleVariant) String() string {
	switch v {
	case RuleDefault:
		return "default"
	case RuleMulti:
		return "multi"
	case RuleSingleton:
		return "singleton"
	case RuleCustom:
		return "custom"
	default:
		return fmt.Sprintf("RuleVariant(%d)", int(v))
	}
}

// Rule is the resolved coercion rule for one key.
type Rule struct {
	Variant RuleVariant
	Kind    Kind
}

func (r Rule) String() string {
	if r.Variant == RuleCustom {
		return r.Variant.String()
	}
	return r.Variant.String() + "(" + r.Kind.String() + ")"
}

// CustomRule converts the input for a key into any Value. It is called both
// with the raw strings produced by the line parser and with values assigned
// through Store.Set, so it must accept both.
type CustomRule func(in Input) (Value, error)

// dispatchTable maps keys to rules. It is built once from a Dialect and is
// never part of a persisted State.
type dispatchTable struct {
	rules  map[string]Rule
	custom map[string]CustomRule
}

// newDispatchTable applies the family lists in declaration order, later lists
// overriding earlier ones, then the custom rules on top.
func newDispatchTable(d *Dialect) *dispatchTable {
	t := &dispatchTable{
		rules:  make(map[string]Rule),
		custom: make(map[string]CustomRule, len(d.CustomRules)),
	}
	families := []struct {
		keys []string
		rule Rule
	}{
		{d.FloatParams, Rule{Variant: RuleMulti, Kind: KindFloat}},
		{d.FloatSingletonParams, Rule{Variant: RuleSingleton, Kind: KindFloat}},
		{d.IntParams, Rule{Variant: RuleMulti, Kind: KindInt}},
		{d.IntSingletonParams, Rule{Variant: RuleSingleton, Kind: KindInt}},
	}
	for _, family := range families {
		for _, key := range family.keys {
			t.rules[d.normalize(key)] = family.rule
		}
	}
	for key, fn := range d.CustomRules {
		k := d.normalize(key)
		t.rules[k] = Rule{Variant: RuleCustom}
		t.custom[k] = fn
	}
	return t
}

// resolve returns the rule for key, falling back to the text default.
func (t *dispatchTable) resolve(key string) Rule {
	if r, ok := t.rules[key]; ok {
		return r
	}
	return Rule{Variant: RuleDefault, Kind: KindText}
}

// coerce runs in through the rule for key.
func (t *dispatchTable) coerce(key string, in Input) (Value, error) {
	v, err := t.apply(key, in)
	if err != nil {
		var ce *CoercionError
		if errors.As(err, &ce) && ce.Key == "" {
			ce.Key = key
		}
		return nil, err
	}
	return v, nil
}

func (t *dispatchTable) apply(key string, in Input) (Value, error) {
	rule := t.resolve(key)
	switch rule.Variant {
	case RuleCustom:
		v, err := t.custom[key](in)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %w", ErrTypeCoercion, key, err)
		}
		if v == nil {
			return nil, fmt.Errorf("%w: key %q: custom rule returned no value", ErrTypeCoercion, key)
		}
		return v, nil
	case RuleSingleton:
		switch rule.Kind {
		case KindInt:
			return NewSingleton(in, ToInt)
		case KindFloat:
			return NewSingleton(in, ToFloat)
		default:
			return NewSingleton(in, ToText)
		}
	case RuleMulti:
		switch rule.Kind {
		case KindInt:
			return NewTypedList(in, ToInt)
		case KindFloat:
			return NewTypedList(in, ToFloat)
		}
	}
	return NewTypedList(in, ToText)
}
