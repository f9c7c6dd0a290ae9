package fn

import "testing"

func TestT(t *testing.T) {
	if T(true, "a", "b") != "a" || T(false, 1, 2) != 2 {
		t.Fatal("ternary picked the wrong branch")
	}
}

func TestOr(t *testing.T) {
	if Or("", "fallback") != "fallback" || Or("set", "fallback") != "set" {
		t.Fatal("Or on strings")
	}
	if Or(0, 7) != 7 || Or(3, 7) != 3 {
		t.Fatal("Or on ints")
	}
}
