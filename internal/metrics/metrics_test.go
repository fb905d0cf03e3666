package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCollector_exposesCounters(t *testing.T) {
	c := NewCollector()

	c.RecordLogin("success")
	c.RecordLogin("failure")
	c.RecordRegistration("success")
	c.RecordTokenVerification("accepted")
	c.RecordGraphOp("follow", "success")
	c.RecordGraphOp("block", "forbidden")

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`follownet_logins_total{result="success"} 1`,
		`follownet_logins_total{result="failure"} 1`,
		`follownet_registrations_total{result="success"} 1`,
		`follownet_token_verifications_total{result="accepted"} 1`,
		`follownet_graph_ops_total{op="follow",result="success"} 1`,
		`follownet_graph_ops_total{op="block",result="forbidden"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
