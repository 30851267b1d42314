package aspect

import "testing"

func TestGenerateKernelShapeAndRange(t *testing.T) {
	k := generateKernel(15, 2)
	size := 2*(15/2+1) + 1
	if len(k) != size {
		t.Fatalf("expected %d rows, got %d", size, len(k))
	}
	center := size / 2
	for r, row := range k {
		if len(row) != size {
			t.Fatalf("row %d: expected %d cols, got %d", r, size, len(row))
		}
	}
	// The cross itself scores negative; a pixel just outside an arm
	// scores positive. With d=20 the field decays to about 0 within a
	// few pixels of the cross, so a far corner normalizes to 0.
	if k[center][center] >= 0 {
		t.Errorf("expected a negative score at the cross center, got %v", k[center][center])
	}
	if k[center-2][3] <= 0 {
		t.Errorf("expected a positive score just outside an arm, got %v", k[center-2][3])
	}
}

func TestGenerateKernelNormalized(t *testing.T) {
	k := generateKernel(9, 1)
	minVal, maxVal := 1.0, -1.0
	for _, row := range k {
		for _, v := range row {
			if v > 1.0001 || v < -1.0001 {
				t.Fatalf("kernel value %v outside [-1, 1]", v)
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if maxVal < 0.999 || minVal > -0.999 {
		t.Errorf("expected the normalized kernel to span close to [-1, 1], got [%v, %v]", minVal, maxVal)
	}
}
