package script

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/raygeo/pkg/field"
	"github.com/chazu/raygeo/pkg/geom"
)

const sphereSource = `
; unit sphere signed distance
(defn field_at [x y z]
  (- (norm3 x y z) 1.0))
`

func TestCompileAndEvaluateSphere(t *testing.T) {
	f, err := Compile(sphereSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	pts := []geom.Vec3{geom.V(0, 0, 0), geom.V(2, 0, 0), geom.V(0.6, -0.8, 0), geom.V(-1.5, 2, 6)}
	got, err := field.Eval(f, pts)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	want, _ := field.Eval(field.SphereSDF{Radius: 1}, pts)

	const tol = 1e-12
	for i := range pts {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("field_at%v = %g, want %g", pts[i], got[i], want[i])
		}
	}
}

func TestEvaluateArithmetic(t *testing.T) {
	f, err := Compile("(defn field_at [x y z] (+ x (* 2.0 y) (* -1.0 z)))")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	got, err := field.Eval(f, []geom.Vec3{geom.V(1, 2, 3), geom.V(-0.5, 0.25, 0)})
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if got[0] != 2 || got[1] != 0 {
		t.Errorf("Eval = %v, want [2 0]", got)
	}
}

func TestEvaluateHelpers(t *testing.T) {
	f, err := Compile("(defn field_at [x y z] (fmax (fabs x) (fmin (fsqrt y) z)))")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	got, err := field.Eval(f, []geom.Vec3{geom.V(-3, 4, 10), geom.V(1, 16, 2)})
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if got[0] != 3 || got[1] != 2 {
		t.Errorf("Eval = %v, want [3 2]", got)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	f, err := Compile(sphereSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	pts := []geom.Vec3{geom.V(0.1, 0.2, 0.3), geom.V(5, 5, 5)}
	first, err := field.Eval(f, pts)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := field.Eval(f, pts)
		if err != nil {
			t.Fatalf("iteration %d: Eval failed: %v", i, err)
		}
		for k := range pts {
			if again[k] != first[k] {
				t.Errorf("iteration %d: value %d changed from %g to %g", i, k, first[k], again[k])
			}
		}
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	f, err := Compile(sphereSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for g := range errs {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			x := float64(g + 2)
			got, err := field.Eval(f, []geom.Vec3{geom.V(x, 0, 0)})
			if err != nil {
				errs[g] = err
				return
			}
			if got[0] != x-1 {
				errs[g] = errors.New("wrong value")
			}
		}(g)
	}
	wg.Wait()
	for g, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d: %v", g, err)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"syntax error", "(defn field_at [x y z] (+ x y)"},
		{"missing entry point", "(def a 1.0)"},
		{"non-numeric result", `(defn field_at [x y z] "inside")`},
		{"undefined symbol", "(defn field_at [x y z] (+ x undefined_symbol))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.source)
			if err == nil {
				t.Fatal("expected compile error")
			}
			if f != nil {
				t.Error("expected nil field on error")
			}
			if err.Error() == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestCompileSyntaxErrorIsEvalError(t *testing.T) {
	_, err := Compile("(defn field_at [x y z]\n  (+ x y)")
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("error = %v (%T), want *EvalError", err, err)
	}
	if evalErr.Message == "" {
		t.Error("eval error message should not be empty")
	}
	t.Logf("line=%d message=%q", evalErr.Line, evalErr.Message)
}

func TestEvaluateShapeMismatch(t *testing.T) {
	f, err := Compile(sphereSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if err := f.Evaluate(make([]geom.Vec3, 2), make([]float64, 3)); !errors.Is(err, geom.ErrShapeMismatch) {
		t.Errorf("error = %v, want ErrShapeMismatch", err)
	}
}

func TestEvaluateRejectsNonFinite(t *testing.T) {
	f, err := Compile(sphereSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	_, err = field.Eval(f, []geom.Vec3{geom.V(math.NaN(), 0, 0)})
	if err == nil || !strings.Contains(err.Error(), "not finite") {
		t.Errorf("error = %v, want non-finite point error", err)
	}
}

func TestWithTimeout(t *testing.T) {
	f, err := Compile(sphereSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	short := f.WithTimeout(time.Second)
	if short.timeout != time.Second || f.timeout != EvalTimeout {
		t.Errorf("WithTimeout should copy: got %s and %s", short.timeout, f.timeout)
	}
}

func TestWaitWithTimeout(t *testing.T) {
	ch := make(chan batchResult) // never sends
	start := time.Now()
	_, err := waitWithTimeout(ch, 20*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error message, got: %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("timeout took %s", time.Since(start))
	}
}

func TestWaitWithTimeoutDelivers(t *testing.T) {
	ch := make(chan batchResult, 1)
	ch <- batchResult{values: []float64{1, 2}}
	vals, err := waitWithTimeout(ch, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 2 || vals[1] != 2 {
		t.Errorf("values = %v", vals)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := parseZygomysError(errors.New(tt.msg))
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

func TestEvalErrorString(t *testing.T) {
	e := &EvalError{Line: 5, Message: "something went wrong"}
	if !strings.Contains(e.Error(), "line 5") {
		t.Errorf("Error() should contain line info, got: %s", e.Error())
	}
	e = &EvalError{Message: "no line"}
	if strings.Contains(e.Error(), "line 0") {
		t.Errorf("Error() should omit zero line, got: %s", e.Error())
	}
}

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"line comment", "(+ 1 2) ; sum", "(+ 1 2) // sum"},
		{"double semicolon", ";; header\n(+ 1 2)", "// header\n(+ 1 2)"},
		{"semicolon in string", `(def s "a;b")`, `(def s "a;b")`},
		{"escaped quote", `(def s "a\";b") ; c`, `(def s "a\";b") // c`},
		{"semicolon in raw string", "(def s `a;b`) ; c", "(def s `a;b`) // c"},
		{"unterminated raw string", "(def s `a;b", "(def s `a;b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.in); got != tt.want {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{-0.5, "-0.5"},
		{0.000125, "0.000125"},
		{1234567, "1234567.0"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%g) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
