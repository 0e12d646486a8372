package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserBirthdayRoundTrip(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"id":1,"email":"a@b.io","login":"ann","name":"Ann","birthday":"1990-05-01"}`), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"birthday":"1990-05-01"`) {
		t.Errorf("birthday not preserved: %s", out)
	}

	out, _ = json.Marshal(User{ID: 2, Login: "bob"})
	if strings.Contains(string(out), "birthday") {
		t.Errorf("nil birthday should be omitted: %s", out)
	}
}

func TestDateUnmarshalRejectsBadFormat(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"01/02/2000"`), &d); err == nil {
		t.Fatal("expected error")
	}
	if err := json.Unmarshal([]byte(`null`), &d); err != nil || !d.IsZero() {
		t.Fatalf("null: %v %v", d, err)
	}
}

func TestDateScan(t *testing.T) {
	want := time.Date(1999, time.March, 31, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		src  any
	}{
		{"time", time.Date(1999, time.March, 31, 0, 0, 0, 0, time.UTC)},
		{"bytes", []byte("1999-03-31")},
		{"datetime string", "1999-03-31 00:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := d.Scan(tt.src); err != nil {
				t.Fatalf("scan: %v", err)
			}
			if !d.Equal(want) {
				t.Errorf("got %v, want %v", d.Time, want)
			}
		})
	}

	var d Date
	if err := d.Scan(42); err == nil {
		t.Error("expected error for int")
	}
	if v, err := (Date{}).Value(); v != nil || err != nil {
		t.Errorf("zero Value = %v, %v", v, err)
	}
}

func TestFeedEventTimestampIsEpochMillis(t *testing.T) {
	at := time.Date(2024, time.May, 1, 12, 0, 0, 250_000_000, time.UTC)
	ev := FeedEvent{ID: 7, UserID: 1, EntityID: 3, EventType: EventLike, Operation: OperationAdd, CreatedAt: at}

	out, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"timestamp":1714564800250`) {
		t.Errorf("timestamp not epoch millis: %s", out)
	}

	var back FeedEvent
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.CreatedAt.Equal(at) || back.ID != ev.ID || back.Operation != ev.Operation {
		t.Errorf("round trip = %+v, want %+v", back, ev)
	}
}
