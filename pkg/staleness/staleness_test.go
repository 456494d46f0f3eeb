package staleness

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	th := Thresholds{Warning: 300 * time.Second, Critical: 900 * time.Second}

	tests := []struct {
		name    string
		elapsed time.Duration
		want    Class
	}{
		{"zero", 0, ClassNormal},
		{"just under warning", 299 * time.Second, ClassNormal},
		{"sub-second under warning", 300*time.Second - time.Millisecond, ClassNormal},
		{"exactly warning", 300 * time.Second, ClassWarning},
		{"between thresholds", 600 * time.Second, ClassWarning},
		{"just under critical", 899 * time.Second, ClassWarning},
		{"exactly critical", 900 * time.Second, ClassCritical},
		{"far past critical", 72 * time.Hour, ClassCritical},
		{"negative from clock skew", -30 * time.Second, ClassNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := th.Classify(tt.elapsed)
			if got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestClass_StringValues(t *testing.T) {
	tests := []struct {
		class Class
		want  string
	}{
		{ClassNormal, "normal"},
		{ClassWarning, "warning"},
		{ClassCritical, "critical"},
	}
	for _, tt := range tests {
		if string(tt.class) != tt.want {
			t.Errorf("Class %v: got %q, want %q", tt.class, string(tt.class), tt.want)
		}
	}
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		th      Thresholds
		wantErr bool
	}{
		{"defaults", DefaultThresholds, false},
		{"ordered", Thresholds{Warning: time.Second, Critical: 2 * time.Second}, false},
		{"equal", Thresholds{Warning: time.Minute, Critical: time.Minute}, true},
		{"inverted", Thresholds{Warning: 10 * time.Minute, Critical: time.Minute}, true},
		{"zero warning", Thresholds{Warning: 0, Critical: time.Minute}, true},
		{"negative critical", Thresholds{Warning: time.Second, Critical: -time.Minute}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.th.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestElapsed(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := Elapsed(now.Add(-90*time.Second), now); got != 90*time.Second {
		t.Errorf("expected 90s, got %v", got)
	}
	if got := Elapsed(now.Add(10*time.Second), now); got != -10*time.Second {
		t.Errorf("expected -10s for future mtime, got %v", got)
	}
}
