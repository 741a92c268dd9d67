package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(logins.WithLabelValues("ok"))
	IncLogin("ok")
	if got := testutil.ToFloat64(logins.WithLabelValues("ok")); got != before+1 {
		t.Errorf("logins{ok} = %v, want %v", got, before+1)
	}

	SetLiveClients(3)
	if got := testutil.ToFloat64(liveClients); got != 3 {
		t.Errorf("live_clients = %v, want 3", got)
	}
}
