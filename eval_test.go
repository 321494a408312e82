package serious_test

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/serious"
)

func TestRun(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars serious.Bindings
		r    float64
	}{
		{"literal", "10.3", nil, 10.3},
		{"add", "1 + 2 + 3 + 4.8", nil, 1 + 2 + 3 + 4.8},
		{"sub", "4-5-6", nil, 4 - 5 - 6},
		{"mul", "4*5*6", nil, 4 * 5 * 6},
		{"div", "4/5/6", nil, 4.0 / 5.0 / 6.0},
		{"pow", "4^3^2", nil, 262144},
		{"neg", "-x", serious.Bindings{'x': 4}, -4},
		{"pythagoras", "(x^2 + y^2)^0.5", serious.Bindings{'x': 3, 'y': 4}, 5},
		{"quadratic", "-2x^2 + 3x - 5", serious.Bindings{'x': 4}, -25},
		{"case", "aA", serious.Bindings{'a': 2, 'A': 3}, 6},
		{"unused", "2", serious.Bindings{'q': 7}, 2},
		{"neg-base", "(-8)^3", nil, -512},
		{"zero-pow", "0^2", nil, 0},
		{"pow-zero", "x^0", serious.Bindings{'x': 5}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := serious.Run(c.src, c.vars)
			require.NoError(t, err)
			assert.InDelta(t, c.r, r, 1e-12)
		})
	}
}

func TestRunExample(t *testing.T) {
	x, y := 12.34, 9999.0
	r, err := serious.Run("34.2x + y^2(-2x^3 + 1)/5.2", serious.Bindings{'x': x, 'y': y})
	require.NoError(t, err)
	assert.InEpsilon(t, 34.2*x+math.Pow(y, 2)*(-2*math.Pow(x, 3)+1)/5.2, r, 1e-12)
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars serious.Bindings
		kind serious.Kind
		msg  string
		span serious.Span
	}{
		{"unbound", "3 + xy", serious.Bindings{'x': 3}, serious.UnboundIdentifier, "identifier 'y' is not bound", serious.Span{5, 6}},
		{"unbound-lhs", "x+1", nil, serious.UnboundIdentifier, "identifier 'x' is not bound", serious.Span{0, 1}},
		{"unbound-first", "a+b", nil, serious.UnboundIdentifier, "identifier 'a' is not bound", serious.Span{0, 1}},
		{"div-zero", "10/0", nil, serious.UndefinedOperation, "division by zero is undefined", serious.Span{0, 4}},
		{"div-zero-nested", "2^(56 / (2 - 2)) * 3", nil, serious.UndefinedOperation, "division by zero is undefined", serious.Span{2, 16}},
		{"div-zero-zero", "0/0", nil, serious.UndefinedOperation, "division by zero is undefined", serious.Span{0, 3}},
		{"zero-zero", "0^0", nil, serious.UndefinedOperation, "(0) ^ (0) is undefined", serious.Span{0, 3}},
		{"zero-zero-vars", "x^y", serious.Bindings{'x': 0, 'y': 0}, serious.UndefinedOperation, "(0) ^ (0) is undefined", serious.Span{0, 3}},
		{"pow-nan", "(-8)^(1/3)", nil, serious.UndefinedOperation, "(-8) ^ (0.3333333333333333) is undefined", serious.Span{0, 10}},
		{"pow-inf", "10^400", nil, serious.UndefinedOperation, "(10) ^ (400) is infinity", serious.Span{0, 6}},
		{"zero-neg-pow", "0^(-1)", nil, serious.UndefinedOperation, "(0) ^ (-1) is infinity", serious.Span{0, 6}},
		{"mul-inf", "x*x", serious.Bindings{'x': 1e200}, serious.UndefinedOperation, "(1e+200) * (1e+200) is infinity", serious.Span{0, 3}},
		{"add-inf", "x+x", serious.Bindings{'x': math.MaxFloat64}, serious.UndefinedOperation, "(1.7976931348623157e+308) + (1.7976931348623157e+308) is infinity", serious.Span{0, 3}},
		{"sub-inf", "-x-x", serious.Bindings{'x': math.MaxFloat64}, serious.UndefinedOperation, "(-1.7976931348623157e+308) - (1.7976931348623157e+308) is infinity", serious.Span{0, 4}},
		{"div-inf", "x/y", serious.Bindings{'x': 1e300, 'y': 1e-300}, serious.UndefinedOperation, "(1e+300) / (1e-300) is infinity", serious.Span{0, 3}},
		{"nan-binding", "x+1", serious.Bindings{'x': math.NaN()}, serious.UndefinedOperation, "(NaN) + (1) is undefined", serious.Span{0, 3}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := serious.Run(c.src, c.vars)
			assert.Zero(t, r)
			require.Error(t, err)
			assert.ErrorIs(t, err, c.kind)
			var e *serious.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, c.kind, e.Kind)
			assert.Equal(t, c.msg, e.Message)
			assert.Equal(t, c.span, e.Span)
		})
	}
}

func TestEvalReusesTree(t *testing.T) {
	e, err := serious.Parse("x^3/2 - x")
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		x := float64(i)
		r, err := e.Eval(serious.Bindings{'x': x})
		require.NoError(t, err)
		assert.Equal(t, x*x*x/2-x, r)
	}
	_, err = e.Eval(nil)
	assert.ErrorIs(t, err, serious.UnboundIdentifier)
	// The tree is unchanged by evaluation.
	assert.Equal(t, "((((x) ^ (3)) / (2)) - (x))", e.String())
}

func TestRunDeterministic(t *testing.T) {
	srcs := []string{"1/3 + 2/7", "2^0.5 * 3^0.25", "(1.1 + 2.2)(3.3 - 4.4)/5.5"}
	for _, src := range srcs {
		a, err := serious.Run(src, nil)
		require.NoError(t, err)
		b, err := serious.Run(src, nil)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(a), math.Float64bits(b), src)
	}
}

func TestRunConcurrent(t *testing.T) {
	vars := serious.Bindings{'x': 3, 'y': 4}
	e, err := serious.Parse("(x^2 + y^2)^0.5")
	require.NoError(t, err)
	var wg sync.WaitGroup
	errs := make([]error, 32)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := e.Eval(vars)
			if err == nil && r != 5 {
				err = fmt.Errorf("got %g", r)
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestErrorKinds(t *testing.T) {
	_, err := serious.Run("1e", nil)
	assert.ErrorIs(t, err, serious.UnboundIdentifier)
	assert.False(t, errors.Is(err, serious.BadParse))

	big := "1" + fmt.Sprintf("%0400d", 0)
	_, err = serious.Run(big, nil)
	assert.ErrorIs(t, err, serious.Overflow)
	assert.ErrorIs(t, err, serious.BadParse)
	assert.False(t, errors.Is(err, serious.UndefinedOperation))

	_, err = serious.Run("1/0", nil)
	assert.False(t, errors.Is(err, serious.Overflow))
}

func BenchmarkEval(b *testing.B) {
	vars := serious.Bindings{'x': 2, 'y': 3, 'z': 4}
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		e, err := serious.Parse("2+3+4")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			e.Eval(nil)
		}
	})
	b.Run("vars", func(b *testing.B) {
		b.ReportAllocs()
		e, err := serious.Parse("x+y+z")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			e.Eval(vars)
		}
	})
}

func Example() {
	fx, _ := serious.Parse("x^3/2 - x")
	dfx, _ := serious.Parse("3x^2/2 - 1")
	ddfx, _ := serious.Parse("3x")

	for i := 0; i < 4; i++ {
		vars := serious.Bindings{'x': float64(i)}
		y, _ := fx.Eval(vars)
		yp, _ := dfx.Eval(vars)
		ypp, _ := ddfx.Eval(vars)
		fmt.Printf("x = %d   y = %-4g  y' = %-4g  y'' = %g\n", i, y, yp, ypp)
	}

	// Output:
	// x = 0   y = 0     y' = -1    y'' = 0
	// x = 1   y = -0.5  y' = 0.5   y'' = 3
	// x = 2   y = 2     y' = 5     y'' = 6
	// x = 3   y = 10.5  y' = 12.5  y'' = 9
}

func ExampleError_Underline() {
	src := "3 + xy"
	_, err := serious.Run(src, serious.Bindings{'x': 3})
	var e *serious.Error
	if errors.As(err, &e) {
		fmt.Println(e.Message)
		fmt.Println(e.Underline(src))
	}

	// Output:
	// identifier 'y' is not bound
	// 3 + xy
	//      ^
}
