package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/samber/lo"

	"github.com/zephyrtronium/serious"
)

// bind adds a name=value definition to b. The value is an expression, which
// may use the bindings already in b.
func bind(b serious.Bindings, def string) error {
	d := strings.SplitN(def, "=", 2)
	if len(d) != 2 {
		return fmt.Errorf(`bindings must be "name=value", not %q`, def)
	}
	nm, err := letter(strings.TrimSpace(d[0]))
	if err != nil {
		return err
	}
	v, err := serious.Run(strings.TrimSpace(d[1]), b)
	if err != nil {
		return fmt.Errorf("binding %c: %w", nm, err)
	}
	b[nm] = v
	return nil
}

// letter gets the identifier named by s.
func letter(s string) (rune, error) {
	toks, err := serious.Tokenize(s)
	if err != nil || len(toks) != 1 || toks[0].Kind != serious.TokenIdent {
		return 0, fmt.Errorf("binding name %q is not a single letter", s)
	}
	return toks[0].Name, nil
}

// loadBindings reads a YAML mapping of letters to values. Values may be
// numbers or strings holding constant expressions.
func loadBindings(path string) (serious.Bindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%q): %w", path, err)
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%q): %w", path, err)
	}
	keys := lo.Keys(m)
	sort.Strings(keys)
	b := make(serious.Bindings, len(m))
	for _, k := range keys {
		nm, err := letter(k)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		v, err := bindingValue(m[k])
		if err != nil {
			return nil, fmt.Errorf("%s: binding %c: %w", path, nm, err)
		}
		b[nm] = v
	}
	return b, nil
}

func bindingValue(x interface{}) (float64, error) {
	var v float64
	switch x := x.(type) {
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case uint64:
		v = float64(x)
	case float64:
		v = x
	case string:
		return serious.Run(x, nil)
	default:
		return 0, fmt.Errorf("value %v is not a number or expression", x)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("value %v is not finite", v)
	}
	return v, nil
}
