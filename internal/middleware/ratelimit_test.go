package middleware

import (
	"net/http/httptest"
	"testing"
)

func TestRateLimiter_burstThenDeny(t *testing.T) {
	rl := NewRateLimiter(0.0001, 3) // effectively no refill within the test

	for i := 0; i < 3; i++ {
		if !rl.Allow("ip:1.2.3.4") {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}
	if rl.Allow("ip:1.2.3.4") {
		t.Error("request beyond burst should be denied")
	}
}

func TestRateLimiter_keysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1)

	if !rl.Allow("ip:1.1.1.1") {
		t.Fatal("first request for key A should be allowed")
	}
	if !rl.Allow("ip:2.2.2.2") {
		t.Error("key B must not share key A's bucket")
	}
	if rl.Allow("ip:1.1.1.1") {
		t.Error("key A should be exhausted")
	}
}

func TestGetIPKey(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := GetIPKey(req); got != "ip:10.0.0.1:1234" {
		t.Errorf("unexpected key without proxy header: %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := GetIPKey(req); got != "ip:203.0.113.7" {
		t.Errorf("X-Forwarded-For should win and use the first IP, got %q", got)
	}
}
