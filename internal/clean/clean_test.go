package clean

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		policy  Policy
		want    float64
		wantErr bool
	}{
		{name: "rupee with thousands separator", raw: "₹1,099", policy: Lenient, want: 1099},
		{name: "plain decimal", raw: "399.50", policy: Lenient, want: 399.5},
		{name: "empty lenient", raw: "", policy: Lenient, want: 0},
		{name: "empty strict", raw: "", policy: Strict, wantErr: true},
		{name: "nan lenient", raw: "nan", policy: Lenient, want: 0},
		{name: "NaN uppercase lenient", raw: "NaN", policy: Lenient, want: 0},
		{name: "nan strict", raw: "nan", policy: Strict, wantErr: true},
		{name: "garbage lenient", raw: "free", policy: Lenient, wantErr: true},
		{name: "garbage strict", raw: "free", policy: Strict, wantErr: true},
		{name: "double decimal point", raw: "1.2.3", policy: Lenient, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price("discounted_price", tt.raw, tt.policy)
			if tt.wantErr {
				var ve *ValidationError
				require.Error(t, err)
				require.True(t, errors.As(err, &ve), "want *ValidationError, got %T", err)
				assert.Equal(t, "discounted_price", ve.Field)
				assert.Equal(t, tt.raw, ve.Raw)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		policy  Policy
		want    int
		wantErr bool
	}{
		{name: "percent sign", raw: "15%", policy: Lenient, want: 15},
		{name: "bare number", raw: "64", policy: Lenient, want: 64},
		{name: "hundred", raw: "100%", policy: Lenient, want: 100},
		{name: "empty lenient", raw: "", policy: Lenient, want: 0},
		{name: "nan lenient", raw: "nan", policy: Lenient, want: 0},
		{name: "empty strict", raw: "", policy: Strict, wantErr: true},
		{name: "garbage", raw: "half off", policy: Lenient, wantErr: true},
		{name: "over hundred", raw: "500%", policy: Lenient, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percent("discount_percentage", tt.raw, tt.policy)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	got, err := Count("rating_count", "4,363", Lenient)
	require.NoError(t, err)
	assert.Equal(t, 4363, got)

	got, err = Count("rating_count", "", Lenient)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = Count("rating_count", "", Strict)
	require.Error(t, err)

	_, err = Count("rating_count", "many", Lenient)
	require.Error(t, err)
}

// Rating never errors: unknown is a valid outcome, distinct from zero.
func TestRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{name: "plain", raw: "4.5", want: ptr(4.5)},
		{name: "integer", raw: "4", want: ptr(4.0)},
		{name: "empty", raw: "", want: nil},
		{name: "nan", raw: "nan", want: nil},
		{name: "double decimal point", raw: "4.5.3", want: nil},
		{name: "no digits at all", raw: "|", want: nil},
		{name: "out of range", raw: "9.9", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rating(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Strict, ParsePolicy("strict"))
	assert.Equal(t, Strict, ParsePolicy(" STRICT "))
	assert.Equal(t, Lenient, ParsePolicy("lenient"))
	assert.Equal(t, Lenient, ParsePolicy(""))
	assert.Equal(t, Lenient, ParsePolicy("whatever"))
}

func ptr(f float64) *float64 { return &f }
