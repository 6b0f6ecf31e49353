package money

import (
	"encoding/json"
	"testing"
)

func TestArithmeticIsExact(t *testing.T) {
	total := Zero
	for i := 0; i < 10; i++ {
		total = total.Add(MustParse("0.1"))
	}
	if !total.Equal(FromInt(1)) {
		t.Fatalf("expected 1, got %s", total)
	}

	if got := FromInt(100).Sub(FromInt(40)); !got.Equal(FromInt(60)) {
		t.Fatalf("expected 60, got %s", got)
	}
}

func TestEqualIgnoresScale(t *testing.T) {
	if !MustParse("1.0").Equal(MustParse("1.00")) {
		t.Fatal("expected 1.0 to equal 1.00")
	}
	if MustParse("1.01").Equal(FromInt(1)) {
		t.Fatal("expected 1.01 to differ from 1")
	}
}

func TestSignPredicates(t *testing.T) {
	if !FromInt(5).IsPositive() || FromInt(5).IsNegative() {
		t.Fatal("expected 5 to be positive")
	}
	if !FromInt(-5).IsNegative() {
		t.Fatal("expected -5 to be negative")
	}
	if !Zero.IsZero() || Zero.IsPositive() {
		t.Fatal("expected zero value to be zero and not positive")
	}
	if !FromInt(3).Neg().Equal(FromInt(-3)) {
		t.Fatal("expected negation of 3 to be -3")
	}
}

func TestLargeValuesDoNotOverflow(t *testing.T) {
	huge := MustParse("9223372036854775807")
	sum := huge.Add(huge)
	if sum.String() != "18446744073709551614" {
		t.Fatalf("unexpected sum %s", sum)
	}
	if !sum.GreaterThan(huge) {
		t.Fatal("expected sum to exceed operand")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("ten"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestJSONUsesDecimalStrings(t *testing.T) {
	payload, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{Amount: MustParse("12.50")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `{"amount":"12.5"}` {
		t.Fatalf("unexpected payload %s", payload)
	}

	var decoded struct {
		Amount Money `json:"amount"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Amount.Equal(MustParse("12.5")) {
		t.Fatalf("expected 12.5, got %s", decoded.Amount)
	}
}
