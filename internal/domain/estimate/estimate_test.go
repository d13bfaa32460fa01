package estimate

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestFromRate_GuardsDegenerateRates(t *testing.T) {
	cases := []struct {
		name    string
		amount  float64
		perHour float64
		want    Status
	}{
		{"zero rate", 100, 0, StatusIndeterminate},
		{"negative rate", 100, -5, StatusIndeterminate},
		{"infinite rate", 100, math.Inf(1), StatusIndeterminate},
		{"nan amount", math.NaN(), 10, StatusIndeterminate},
		{"nothing left", 0, 10, StatusOK},
		{"normal", 100, 50, StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FromRate(tc.amount, tc.perHour).Status; got != tc.want {
				t.Fatalf("status mismatch: got=%s want=%s", got, tc.want)
			}
		})
	}

	if got := FromRate(100, 50).Hours; got != 2 {
		t.Fatalf("hours mismatch: got=%v want=2", got)
	}
}

func TestMarshalJSON_OmitsHoursUnlessKnown(t *testing.T) {
	b, err := json.Marshal(AtCap())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"status":"at_cap"}` {
		t.Fatalf("unexpected json: %s", b)
	}

	b, _ = json.Marshal(OK(1.5))
	if string(b) != `{"status":"ok","hours":1.5}` {
		t.Fatalf("unexpected json: %s", b)
	}

	b, _ = json.Marshal(Estimate{})
	if string(b) != `{"status":"unavailable"}` {
		t.Fatalf("unexpected json for zero value: %s", b)
	}

	var back Estimate
	if err := json.Unmarshal([]byte(`{"status":"ok","hours":1.5}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != OK(1.5) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestDuration(t *testing.T) {
	d, ok := OK(0.5).Duration()
	if !ok || d != 30*time.Minute {
		t.Fatalf("duration mismatch: got=%v ok=%v", d, ok)
	}
	if _, ok := Indeterminate().Duration(); ok {
		t.Fatalf("expected indeterminate to have no duration")
	}
	if got := AtCap().String(); got != "at_cap" {
		t.Fatalf("string mismatch: %q", got)
	}
	if got := OK(1).String(); got != "1h0m0s" {
		t.Fatalf("string mismatch: %q", got)
	}
}
