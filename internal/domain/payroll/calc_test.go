package payroll

import "testing"

func TestNet(t *testing.T) {
	cases := []struct {
		name                              string
		basic, hra, allowances, deduction float64
		want                              float64
	}{
		{"all components", 30000, 12000, 5000, 3000, 44000},
		{"no deductions", 30000, 0, 0, 0, 30000},
		{"deductions exceed pay", 1000, 0, 0, 2500, -1500},
		{"rounds to cents", 1000.005, 0, 0, 0, 1000.01},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Net(tc.basic, tc.hra, tc.allowances, tc.deduction)
			if got != tc.want {
				t.Fatalf("Net = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidPeriod(t *testing.T) {
	if !ValidPeriod(1, 2026) || !ValidPeriod(12, 2026) {
		t.Fatal("calendar months must be accepted")
	}
	for _, bad := range [][2]int{{0, 2026}, {13, 2026}, {6, 1999}, {6, 0}} {
		if ValidPeriod(bad[0], bad[1]) {
			t.Fatalf("ValidPeriod(%d, %d) = true, want false", bad[0], bad[1])
		}
	}
}
