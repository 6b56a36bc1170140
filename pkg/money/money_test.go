package money

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out Cents
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"23.45", 2345, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestRoundup(t *testing.T) {
	cases := []struct {
		amount  Cents
		rounded Cents
		roundup Cents
	}{
		{450, 500, 50},
		{499, 500, 1},
		{500, 500, 0}, // whole dollars produce no spare change
		{1, 100, 99},
		{1234, 1300, 66},
		{0, 0, 0},
		{-50, 0, 0},
	}
	for _, tc := range cases {
		if got := RoundedUp(tc.amount); got != tc.rounded {
			t.Fatalf("RoundedUp(%d) = %d, want %d", tc.amount, got, tc.rounded)
		}
		if got := Roundup(tc.amount); got != tc.roundup {
			t.Fatalf("Roundup(%d) = %d, want %d", tc.amount, got, tc.roundup)
		}
	}
}

// Roundup must stay inside [0, $1) for any positive amount.
func TestRoundupBounds(t *testing.T) {
	for amount := Cents(1); amount <= 1000; amount++ {
		r := Roundup(amount)
		if r < 0 || r >= 100 {
			t.Fatalf("Roundup(%d) = %d out of [0,100)", amount, r)
		}
		if (amount+r)%100 != 0 {
			t.Fatalf("Roundup(%d) = %d does not reach a whole dollar", amount, r)
		}
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		in   Cents
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{2345, "23.45"},
		{-101, "-1.01"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Fatalf("Cents(%d).String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}
