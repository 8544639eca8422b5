package updater

import "testing"

func TestParseSemver(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Semver
		wantErr bool
	}{
		{name: "plain", in: "1.2.3", want: Semver{1, 2, 3}},
		{name: "v prefix", in: "v0.10.1", want: Semver{0, 10, 1}},
		{name: "two parts", in: "1.2", wantErr: true},
		{name: "dev", in: "dev", wantErr: true},
		{name: "non-numeric", in: "1.2.x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSemver(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSemver(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSemver(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSemverLessThan(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Semver
		expected bool
	}{
		{name: "major", a: Semver{1, 9, 9}, b: Semver{2, 0, 0}, expected: true},
		{name: "minor", a: Semver{1, 2, 9}, b: Semver{1, 3, 0}, expected: true},
		{name: "patch", a: Semver{1, 2, 3}, b: Semver{1, 2, 4}, expected: true},
		{name: "equal", a: Semver{1, 2, 3}, b: Semver{1, 2, 3}, expected: false},
		{name: "greater", a: Semver{2, 0, 0}, b: Semver{1, 9, 9}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.LessThan(tt.b); got != tt.expected {
				t.Errorf("%v.LessThan(%v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
