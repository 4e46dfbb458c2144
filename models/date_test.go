package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"plain date", `"2024-01-05"`, Date{2024, time.January, 5}, false},
		{"utc midnight", `"2024-01-05T00:00:00Z"`, Date{2024, time.January, 5}, false},
		{"late utc", `"2024-01-05T23:30:00Z"`, Date{2024, time.January, 5}, false},
		{"offset kept as written", `"2024-01-05T00:00:00+08:00"`, Date{2024, time.January, 5}, false},
		{"leap day", `"2024-02-29"`, Date{2024, time.February, 29}, false},
		{"not a leap year", `"2023-02-29"`, Date{}, true},
		{"slashes", `"01/05/2024"`, Date{}, true},
		{"number", `20240105`, Date{}, true},
		{"empty", `""`, Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if d != tt.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, d, tt.want)
			}
		})
	}
}

func TestDateIn(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	d := Date{2024, time.January, 1}
	got := d.In(newYork)
	want := time.Date(2024, time.January, 1, 5, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("In(New York) = %v, want %v", got.UTC(), want)
	}
	if NewDate(got) != d {
		t.Errorf("NewDate(%v) = %v, want %v", got, NewDate(got), d)
	}
}

func TestDateMarshalJSON(t *testing.T) {
	b, err := json.Marshal(UpdateElectionSettingsRequest{EndDate: &Date{2024, time.March, 9}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var round UpdateElectionSettingsRequest
	if err := json.Unmarshal(b, &round); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if round.EndDate == nil || *round.EndDate != (Date{2024, time.March, 9}) {
		t.Errorf("EndDate = %v, want 2024-03-09", round.EndDate)
	}
	if round.StartDate != nil {
		t.Errorf("StartDate = %v, want nil", round.StartDate)
	}
}
