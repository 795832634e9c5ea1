// Package script implements fields written in zygomys Lisp. The source
// must define the entry point
//
//	(defn field_at [x y z] ...)
//
// returning a number. Every batch is evaluated in a fresh sandboxed
// interpreter, so a Field holds no interpreter state and is safe for
// concurrent use. zygomys keeps global state that is not safe for
// concurrent sandbox creation, so batches from all fields run one at a
// time.
package script

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/raygeo/pkg/field"
	"github.com/chazu/raygeo/pkg/geom"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EntryPoint is the function every field source must define.
const EntryPoint = "field_at"

var _ field.Field = (*Field)(nil)

// interpMu serializes interpreter runs. A batch that overruns its
// timeout keeps holding it until the interpreter returns.
var interpMu sync.Mutex

// Field is a compiled scripted field.
type Field struct {
	source  string
	timeout time.Duration
}

// Compile checks that source parses, runs and defines EntryPoint
// returning a number. Source errors come back as *EvalError.
func Compile(source string) (*Field, error) {
	f := &Field{
		source:  preprocessSource(source),
		timeout: EvalTimeout,
	}
	if _, err := f.evaluate([]geom.Vec3{{}}); err != nil {
		return nil, err
	}
	return f, nil
}

// WithTimeout returns a copy of f whose batches are bounded by d instead
// of EvalTimeout.
func (f *Field) WithTimeout(d time.Duration) *Field {
	c := *f
	c.timeout = d
	return &c
}

// Evaluate runs the entry point on every point in a single interpreter
// evaluation.
func (f *Field) Evaluate(pts []geom.Vec3, dst []float64) error {
	if len(pts) != len(dst) {
		return fmt.Errorf("script: %d points vs %d outputs: %w", len(pts), len(dst), geom.ErrShapeMismatch)
	}
	if len(pts) == 0 {
		return nil
	}
	vals, err := f.evaluate(pts)
	if err != nil {
		return err
	}
	copy(dst, vals)
	return nil
}

func (f *Field) evaluate(pts []geom.Vec3) ([]float64, error) {
	expr, err := batchExpr(pts)
	if err != nil {
		return nil, err
	}

	ch := make(chan batchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- batchResult{err: fmt.Errorf("script: panic during evaluation: %v", r)}
			}
		}()
		vals, err := run(f.source, expr, len(pts))
		ch <- batchResult{values: vals, err: err}
	}()

	return waitWithTimeout(ch, f.timeout)
}

// run evaluates source followed by expr in a fresh sandbox. The value of
// the last expression is the batch result.
func run(source, expr string, n int) ([]float64, error) {
	interpMu.Lock()
	defer interpMu.Unlock()

	// Sandbox mode keeps field code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env)

	if err := env.LoadString(source + "\n" + expr); err != nil {
		return nil, parseZygomysError(err)
	}
	out, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err)
	}

	list, ok := out.(*zygo.SexpPair)
	if !ok {
		return nil, fmt.Errorf("script: expected result list, got %T", out)
	}
	items, err := zygo.ListToArray(list)
	if err != nil {
		return nil, fmt.Errorf("script: result list: %w", err)
	}
	if len(items) != n {
		return nil, fmt.Errorf("script: got %d values for %d points: %w", len(items), n, geom.ErrShapeMismatch)
	}
	vals := make([]float64, n)
	for i, item := range items {
		v, err := toFloat64(item)
		if err != nil {
			return nil, fmt.Errorf("script: %s at point %d: %w", EntryPoint, i, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// batchExpr builds (list (field_at x y z) ...) for every point.
func batchExpr(pts []geom.Vec3) (string, error) {
	var sb strings.Builder
	sb.WriteString("(list")
	for i, p := range pts {
		if !p.IsFinite() {
			return "", fmt.Errorf("script: point %d %v is not finite", i, p)
		}
		sb.WriteString(" (")
		sb.WriteString(EntryPoint)
		for _, c := range p.Array() {
			sb.WriteByte(' ')
			sb.WriteString(formatNumber(c))
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
	return sb.String(), nil
}

// formatNumber always emits a float literal so arithmetic in field code
// stays in floating point.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// registerBuiltins adds the float helpers field code commonly needs.
func registerBuiltins(env *zygo.Zlisp) {
	unary := map[string]func(float64) float64{
		"fsqrt": math.Sqrt,
		"fabs":  math.Abs,
	}
	for name, fn := range unary {
		fn := fn
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", name, len(args))
			}
			x, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &zygo.SexpFloat{Val: fn(x)}, nil
		})
	}

	binary := map[string]func(float64, float64) float64{
		"fmin": math.Min,
		"fmax": math.Max,
	}
	for name, fn := range binary {
		fn := fn
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 arguments, got %d", name, len(args))
			}
			a, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			b, err := toFloat64(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &zygo.SexpFloat{Val: fn(a, b)}, nil
		})
	}

	// (norm3 x y z) is the Euclidean length of (x, y, z).
	env.AddFunction("norm3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("norm3 requires exactly 3 arguments, got %d", len(args))
		}
		var sum float64
		for i, a := range args {
			v, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("norm3: arg %d: %w", i, err)
			}
			sum += v * v
		}
		return &zygo.SexpFloat{Val: math.Sqrt(sum)}, nil
	})
}
