package money

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Money
		wantErr bool
	}{
		{name: "two decimals", input: "114.97", want: 11497},
		{name: "integer", input: "20", want: 2000},
		{name: "one decimal", input: "26.6", want: 2660},
		{name: "trailing zeros beyond cents", input: "10.500", want: 1050},
		{name: "negative", input: "-3.10", want: -310},
		{name: "surrounding spaces", input: " 0.01 ", want: 1},
		{name: "three decimals", input: "1.005", wantErr: true},
		{name: "not numeric", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "out of range", input: "100000000000000000", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidAmount))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "114.97", FromCents(11497).String())
	assert.Equal(t, "0.00", Zero.String())
	assert.Equal(t, "0.05", FromCents(5).String())
	assert.Equal(t, "-1.50", FromCents(-150).String())
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MustParse("46.60")
	b := MustParse("20.00")

	assert.Equal(t, MustParse("66.60"), a.Add(b))
	assert.Equal(t, MustParse("26.60"), a.Sub(b))
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(MustParse("46.6")))
	assert.Equal(t, MustParse("26.60"), b.Sub(a).Abs())
	assert.Equal(t, a, Max(a, b))
	assert.Equal(t, MustParse("66.60"), Sum(a, b))
	assert.True(t, a.IsPositive())
	assert.False(t, Zero.IsPositive())
	assert.True(t, Zero.IsZero())
}

func TestMoney_Split(t *testing.T) {
	t.Run("even division", func(t *testing.T) {
		shares, err := MustParse("85.98").Split(3)
		require.NoError(t, err)
		assert.Equal(t, []Money{2866, 2866, 2866}, shares)
	})

	t.Run("remainder on last share", func(t *testing.T) {
		shares, err := MustParse("100.00").Split(3)
		require.NoError(t, err)
		assert.Equal(t, []Money{3333, 3333, 3334}, shares)
	})

	t.Run("single payer", func(t *testing.T) {
		shares, err := MustParse("12.34").Split(1)
		require.NoError(t, err)
		assert.Equal(t, []Money{1234}, shares)
	})

	t.Run("more payers than cents", func(t *testing.T) {
		shares, err := FromCents(2).Split(3)
		require.NoError(t, err)
		assert.Equal(t, []Money{0, 0, 2}, shares)
	})

	t.Run("invalid count", func(t *testing.T) {
		for _, n := range []int{0, -1} {
			_, err := MustParse("10.00").Split(n)
			assert.True(t, errors.Is(err, ErrInvalidSplitCount), "n=%d", n)
		}
	})

	t.Run("sum always equals original", func(t *testing.T) {
		for _, total := range []Money{0, 1, 7, 99, 11497, 8598, 4660, 123457, -1001} {
			for n := 1; n <= 17; n++ {
				shares, err := total.Split(n)
				require.NoError(t, err)
				require.Len(t, shares, n)
				require.Equal(t, total, Sum(shares...), "total=%s n=%d", total, n)
				for i := 0; i < n-1; i++ {
					require.LessOrEqual(t, shares[i], shares[n-1], "total=%s n=%d", total, n)
				}
			}
		}
	})
}

func TestMoney_JSON(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	t.Run("number", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"amount":114.97}`), &p))
		assert.Equal(t, Money(11497), p.Amount)
	})

	t.Run("string", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"26.60"}`), &p))
		assert.Equal(t, Money(2660), p.Amount)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var p payload
		assert.Error(t, json.Unmarshal([]byte(`{"amount":"ten"}`), &p))
		assert.Error(t, json.Unmarshal([]byte(`{"amount":null}`), &p))
		assert.Error(t, json.Unmarshal([]byte(`{"amount":1.999}`), &p))
	})

	t.Run("marshal", func(t *testing.T) {
		b, err := json.Marshal(payload{Amount: 2866})
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":28.66}`, string(b))
	})
}

func TestMoney_UnmarshalJSON_HugeExponent(t *testing.T) {
	inputs := []string{"1e20000000", "1e-20000000", `"1e5000000"`, "1.5e19"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			done := make(chan error, 1)
			go func() {
				var m Money
				done <- m.UnmarshalJSON([]byte(in))
			}()

			select {
			case err := <-done:
				require.ErrorIs(t, err, ErrInvalidAmount)
				assert.Less(t, len(err.Error()), 200)
			case <-time.After(time.Second):
				t.Fatalf("decoding %s did not return within 1s", in)
			}
		})
	}
}

func TestSumChecked(t *testing.T) {
	sum, ok := SumChecked(MustParse("1.00"), MustParse("2.50"))
	require.True(t, ok)
	assert.Equal(t, Money(350), sum)

	shares := make([]Money, 0, 19)
	for i := 0; i < 18; i++ {
		shares = append(shares, FromCents(maxCents))
	}
	shares = append(shares, FromCents(446744073709551716))
	assert.Equal(t, Money(100), Sum(shares...), "plain Sum wraps around")

	_, ok = SumChecked(shares...)
	assert.False(t, ok)
}
