package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderPatchApply(t *testing.T) {
	str := func(s string) *string { return &s }

	testCases := []struct {
		name string

		order   Order
		patch   OrderPatch
		want    Order
		wantErr bool
	}{
		{
			name:  "component change recomputes total and balance",
			order: Order{Frame: "100", Glass: "50", Total: "150", Advance: "20", Balance: "130"},
			patch: OrderPatch{Glass: str("80")},
			want:  Order{Frame: "100", Glass: "80", Total: "180", Advance: "20", Balance: "160"},
		},
		{
			name:  "advance change recomputes balance only",
			order: Order{Total: "100", Advance: "20", Balance: "80"},
			patch: OrderPatch{Advance: str("50")},
			want:  Order{Total: "100", Advance: "50", Balance: "50"},
		},
		{
			name:  "explicit total wins when no component changed",
			order: Order{Total: "100", Balance: "100"},
			patch: OrderPatch{Total: str("90")},
			want:  Order{Total: "90", Balance: "90"},
		},
		{
			name:  "component change overrides explicit total",
			order: Order{Frame: "100", Total: "100", Balance: "100"},
			patch: OrderPatch{Frame: str("60"), Total: str("500")},
			want:  Order{Frame: "60", Total: "60", Balance: "60"},
		},
		{
			name:  "clearing a component drops it from the total",
			order: Order{Frame: "100", Glass: "50", Total: "150", Balance: "150"},
			patch: OrderPatch{Glass: str("")},
			want:  Order{Frame: "100", Glass: "", Total: "100", Balance: "100"},
		},
		{
			name:  "fractional amounts keep two digits",
			order: Order{Frame: "99.25", Total: "99.25", Balance: "99.25"},
			patch: OrderPatch{Advance: str("9.15")},
			want:  Order{Frame: "99.25", Total: "99.25", Advance: "9.15", Balance: "90.10"},
		},
		{
			name:    "bad amount rejected",
			order:   Order{Total: "100", Balance: "100"},
			patch:   OrderPatch{Advance: str("twenty")},
			wantErr: true,
		},
		{
			name:    "negative amount rejected",
			order:   Order{Total: "100", Balance: "100"},
			patch:   OrderPatch{Advance: str("-5")},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := tc.order
			err := tc.patch.Apply(&o)
			if tc.wantErr {
				require.Error(t, err)
				require.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, o)
		})
	}
}

func TestComputeTotal(t *testing.T) {
	o := Order{Frame: "1200", Glass: "800.50", Advance: "500"}
	require.NoError(t, o.ComputeTotal())
	require.Equal(t, "2000.50", o.Total)
	require.Equal(t, "1500.50", o.Balance)

	// A caller-provided total is kept as is.
	o = Order{Frame: "1200", Total: "1000", Advance: "100"}
	require.NoError(t, o.ComputeTotal())
	require.Equal(t, "1000", o.Total)
	require.Equal(t, "900", o.Balance)
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "80", FormatAmount(80))
	require.Equal(t, "0", FormatAmount(0))
	require.Equal(t, "79.50", FormatAmount(79.5))
	require.Equal(t, "0.10", FormatAmount(0.1))
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("total", " 42.5 ")
	require.NoError(t, err)
	require.Equal(t, 42.5, v)

	for _, bad := range []string{"", "abc", "-1", "1,000"} {
		_, err := ParseAmount("total", bad)
		require.True(t, IsValidation(err), "input %q", bad)
	}
}

func TestParsePaymentEnums(t *testing.T) {
	for _, s := range []string{"pending", "completed"} {
		got, err := ParsePaymentStatus(s)
		require.NoError(t, err)
		require.Equal(t, PaymentStatus(s), got)
	}
	_, err := ParsePaymentStatus("Pending")
	require.True(t, IsValidation(err))

	for _, s := range []string{"Cash", "Card", "UPI", "Online"} {
		got, err := ParsePaymentType(s)
		require.NoError(t, err)
		require.Equal(t, PaymentType(s), got)
	}
	_, err = ParsePaymentType("cash")
	require.True(t, IsValidation(err))
}
