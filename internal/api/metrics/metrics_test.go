package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/carlot/inventory-api/internal/core/domain"
)

func TestTokenResult(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{domain.Unauthorized("token has expired").Wrap(domain.ErrTokenExpired), "expired"},
		{domain.Unauthorized("invalid token").Wrap(domain.ErrTokenInvalid), "invalid"},
		{domain.Unauthorized("could not validate credentials").Wrap(domain.ErrTokenMalformed), "malformed"},
		{domain.Unauthorized("inactive user"), "identity_rejected"},
		{errors.New("store down"), "error"},
	}
	for _, tc := range cases {
		if got := TokenResult(tc.err); got != tc.want {
			t.Errorf("TokenResult(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(VehicleMutationsTotal.WithLabelValues("create"))
	VehicleMutationsTotal.WithLabelValues("create").Inc()
	if got := testutil.ToFloat64(VehicleMutationsTotal.WithLabelValues("create")); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}
}
