package pricing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pephaul/orderdesk/internal/pricing"
)

func TestCalculator_AdminFee(t *testing.T) {
	calc := pricing.NewCalculator(300, 50)

	tests := []struct {
		name  string
		vials int
		want  float64
	}{
		{"zero_vials", 0, 0},
		{"one_vial_full_unit", 1, 300},
		{"exact_bracket", 50, 300},
		{"one_over_bracket", 51, 600},
		{"two_brackets_exact", 100, 600},
		{"negative_treated_as_zero", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.AdminFee(tt.vials))
		})
	}
}

func TestCalculator_GrandTotal(t *testing.T) {
	calc := pricing.NewCalculator(300, 50)
	assert.Equal(t, 2964.0, calc.GrandTotal(2664.0, 10))
	assert.Equal(t, 100.0, calc.GrandTotal(100.0, 0))
}

func TestRateFetcher_LiveRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"PHP":56.75,"EUR":0.92}}`))
	}))
	defer srv.Close()

	f := pricing.NewRateFetcher(srv.URL, 59.20)
	assert.Equal(t, 56.75, f.Rate(context.Background()))
}

func TestRateFetcher_FallbackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := pricing.NewRateFetcher(srv.URL, 59.20)
	assert.Equal(t, 59.20, f.Rate(context.Background()))
}

func TestRateFetcher_FallbackOnNonPositiveRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"PHP":0}}`))
	}))
	defer srv.Close()

	f := pricing.NewRateFetcher(srv.URL, 59.20)
	assert.Equal(t, 59.20, f.Rate(context.Background()))
}
