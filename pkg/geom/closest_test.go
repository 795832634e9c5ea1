package geom

import (
	"errors"
	"math"
	"testing"
)

func TestClosestPointOnRay(t *testing.T) {
	b := FromRays(
		Ray{Origin: V(0, 0, 0), Dir: V(1, 0, 0)},
		Ray{Origin: V(0, 1, 0), Dir: V(0, 2, 0)}, // non-unit direction
	)
	pts := []Vec3{V(3, 4, 0), V(-1, 0, 5)}

	proj, zvals, err := ClosestPointOnRay(b, pts)
	if err != nil {
		t.Fatalf("ClosestPointOnRay failed: %v", err)
	}

	want := [][]Vec3{
		{V(3, 0, 0), V(-1, 0, 0)},
		{V(0, 4, 0), V(0, 0, 0)},
	}
	wantZ := [][]float64{{3, -1}, {1.5, -0.5}}
	for i := range want {
		for k := range want[i] {
			if !approxVec(proj[i][k], want[i][k], tol) {
				t.Errorf("proj[%d][%d] = %v, want %v", i, k, proj[i][k], want[i][k])
			}
			if math.Abs(zvals[i][k]-wantZ[i][k]) > tol {
				t.Errorf("zvals[%d][%d] = %g, want %g", i, k, zvals[i][k], wantZ[i][k])
			}
			// The residual must be orthogonal to the ray direction.
			r := pts[k].Sub(proj[i][k])
			if math.Abs(r.Dot(b.Dirs[i])) > tol {
				t.Errorf("residual for [%d][%d] not orthogonal: %g", i, k, r.Dot(b.Dirs[i]))
			}
		}
	}
}

func TestClosestPointOnRayZeroDirection(t *testing.T) {
	b := FromRays(Ray{})
	if _, _, err := ClosestPointOnRay(b, []Vec3{{}}); !errors.Is(err, ErrZeroDirection) {
		t.Errorf("error = %v, want ErrZeroDirection", err)
	}
}

func TestClosestPointToRaysConcurrent(t *testing.T) {
	// Rays from points on a sphere of radius sqrt(3) all aimed at Q.
	q := V(0.25, -0.5, 0.1)
	starts := []Vec3{
		V(1, 1, -1), V(-1, 1, 1), V(1, -1, 1), V(-1, -1, -1), V(1.5, 0.5, 0.8),
	}
	var rays []Ray
	for _, s := range starts {
		rays = append(rays, Ray{Origin: s, Dir: mustNormalize(t, q.Sub(s))})
	}
	b := FromRays(rays...)

	res, err := ClosestPointToRays(b)
	if err != nil {
		t.Fatalf("ClosestPointToRays failed: %v", err)
	}
	if !res.Valid {
		t.Fatal("expected valid result for non-parallel rays")
	}
	const eps = 1e-7
	if !approxVec(res.Point, q, eps) {
		t.Errorf("Point = %v, want %v", res.Point, q)
	}
	if res.Distance > eps {
		t.Errorf("Distance = %g, want ~0", res.Distance)
	}
	if len(res.ZVals) != b.Len() {
		t.Fatalf("got %d zvals, want %d", len(res.ZVals), b.Len())
	}
	for i, z := range res.ZVals {
		want := q.Sub(b.Origins[i]).Length()
		if math.Abs(z-want) > eps {
			t.Errorf("zvals[%d] = %g, want %g", i, z, want)
		}
	}
}

func TestClosestPointToRaysSkewMatchesTwoRay(t *testing.T) {
	b := FromRays(
		Ray{Origin: V(0, 0, 0), Dir: V(1, 0, 0)},
		Ray{Origin: V(0, 0, 3), Dir: V(0, 1, 0)},
	)
	res, err := ClosestPointToRays(b)
	if err != nil {
		t.Fatalf("ClosestPointToRays failed: %v", err)
	}
	if !res.Valid {
		t.Fatal("expected valid result")
	}
	if !approxVec(res.Point, V(0, 0, 1.5), 1e-9) {
		t.Errorf("Point = %v, want (0, 0, 1.5)", res.Point)
	}
	// Sum of squared distances: 1.5² + 1.5².
	if math.Abs(res.Distance-4.5) > 1e-9 {
		t.Errorf("Distance = %g, want 4.5", res.Distance)
	}

	two, err := ClosestPointToTwoRays(b)
	if err != nil {
		t.Fatalf("ClosestPointToTwoRays failed: %v", err)
	}
	if !approxVec(two.Point, res.Point, 1e-9) {
		t.Errorf("two-ray point %v differs from least-squares point %v", two.Point, res.Point)
	}
}

func TestClosestPointToRaysDegenerate(t *testing.T) {
	tests := []struct {
		name string
		b    Bundle
	}{
		{"single ray", FromRays(Ray{Origin: V(1, 2, 3), Dir: V(0, 0, 1)})},
		{"all parallel", FromRays(
			Ray{Origin: V(0, 0, 0), Dir: V(0, 0, 1)},
			Ray{Origin: V(1, 0, 0), Dir: V(0, 0, 2)},
			Ray{Origin: V(0, 1, 0), Dir: V(0, 0, -1)},
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ClosestPointToRays(tt.b)
			if err != nil {
				t.Fatalf("ClosestPointToRays failed: %v", err)
			}
			if res.Valid {
				t.Error("expected Valid=false for rank-deficient system")
			}
			if !res.Point.IsFinite() || math.IsNaN(res.Distance) || math.IsInf(res.Distance, 0) {
				t.Errorf("degenerate result must stay finite: point %v distance %g", res.Point, res.Distance)
			}
			for i, z := range res.ZVals {
				if math.IsNaN(z) || math.IsInf(z, 0) {
					t.Errorf("zvals[%d] = %g, want finite", i, z)
				}
			}
		})
	}
}

func TestClosestPointToRaysEmpty(t *testing.T) {
	if _, err := ClosestPointToRays(Bundle{}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("error = %v, want ErrShapeMismatch", err)
	}
}

func TestClosestPointToTwoRaysIntersecting(t *testing.T) {
	q := V(2, 0, 0)
	b := FromRays(
		Ray{Origin: V(0, 0, 0), Dir: V(1, 0, 0)},
		Ray{Origin: V(2, -1, 0), Dir: V(0, 1, 0)},
	)
	res, err := ClosestPointToTwoRays(b)
	if err != nil {
		t.Fatalf("ClosestPointToTwoRays failed: %v", err)
	}
	if !res.Valid {
		t.Fatal("expected valid result")
	}
	if res.Distance > tol {
		t.Errorf("Distance = %g, want 0", res.Distance)
	}
	if !approxVec(res.Point, q, tol) {
		t.Errorf("Point = %v, want %v", res.Point, q)
	}
	if math.Abs(res.ZVals[0]-2) > tol || math.Abs(res.ZVals[1]-1) > tol {
		t.Errorf("ZVals = %v, want [2 1]", res.ZVals)
	}
}

func TestClosestPointToTwoRaysSkew(t *testing.T) {
	tests := []struct {
		name   string
		o0, d0 Vec3
		o1, d1 Vec3
	}{
		{"orthogonal", V(0, 0, 0), V(1, 0, 0), V(2, -1, 3), V(0, 1, 0)},
		{"oblique", V(1, 2, 3), V(0.3, -0.4, 1), V(-2, 0.5, 1), V(1, 1, -0.2)},
		{"backward", V(0, 0, 0), V(-1, 0, 0), V(5, 5, 1), V(0, -1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FromRays(Ray{Origin: tt.o0, Dir: tt.d0}, Ray{Origin: tt.o1, Dir: tt.d1})
			res, err := ClosestPointToTwoRays(b)
			if err != nil {
				t.Fatalf("ClosestPointToTwoRays failed: %v", err)
			}
			if !res.Valid {
				t.Fatal("expected valid result for skew rays")
			}
			n := tt.d0.Cross(tt.d1)
			want := math.Abs(tt.o1.Sub(tt.o0).Dot(n)) / n.Length()
			if math.Abs(res.Distance-want) > 1e-9 {
				t.Errorf("Distance = %g, want %g (cross-product formula)", res.Distance, want)
			}
			if want > 0 && res.Distance <= 0 {
				t.Error("skew rays must have positive separation")
			}
			p0 := b.Ray(0).At(res.ZVals[0])
			p1 := b.Ray(1).At(res.ZVals[1])
			if !approxVec(res.Point, p0.Add(p1).Scale(0.5), tol) {
				t.Errorf("Point %v is not the midpoint of the feet", res.Point)
			}
		})
	}
}

func TestClosestPointToTwoRaysParallel(t *testing.T) {
	b := FromRays(
		Ray{Origin: V(0, 0, 0), Dir: V(1, 0, 0)},
		Ray{Origin: V(0, 2, 0), Dir: V(-3, 0, 0)},
	)
	res, err := ClosestPointToTwoRays(b)
	if err != nil {
		t.Fatalf("ClosestPointToTwoRays failed: %v", err)
	}
	if res.Valid {
		t.Error("parallel rays must be reported invalid")
	}
	if math.Abs(res.Distance-2) > tol {
		t.Errorf("Distance = %g, want line separation 2", res.Distance)
	}
}

func TestClosestPointToTwoRaysWrongCount(t *testing.T) {
	b := FromRays(Ray{Dir: V(1, 0, 0)})
	if _, err := ClosestPointToTwoRays(b); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("error = %v, want ErrShapeMismatch", err)
	}
}
