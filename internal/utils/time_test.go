package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "valid timezone America/New_York",
			timezone: "America/New_York",
			wantErr:  false,
		},
		{
			name:     "valid timezone Europe/London",
			timezone: "Europe/London",
			wantErr:  false,
		},
		{
			name:     "valid timezone Asia/Tokyo",
			timezone: "Asia/Tokyo",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestNowInTimezone(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "Local timezone",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "UTC timezone",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "America/New_York timezone",
			timezone: "America/New_York",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now, err := NowInTimezone(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("NowInTimezone() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				// Verify the time is not zero
				if now.IsZero() {
					t.Errorf("NowInTimezone() returned zero time")
				}
				// Verify the location matches
				if tt.timezone == "Local" || tt.timezone == "" {
					if now.Location() != time.Local {
						t.Errorf("NowInTimezone() location = %v, want Local", now.Location())
					}
				} else {
					expectedLoc, _ := time.LoadLocation(tt.timezone)
					if now.Location().String() != expectedLoc.String() {
						t.Errorf("NowInTimezone() location = %v, want %v", now.Location(), expectedLoc)
					}
				}
			}
		})
	}
}

func TestParseDateInLocation(t *testing.T) {
	utc, _ := time.LoadLocation("UTC")
	est, _ := time.LoadLocation("America/New_York")

	tests := []struct {
		name      string
		dateStr   string
		loc       *time.Location
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantErr   bool
	}{
		{
			name:      "valid date in UTC",
			dateStr:   "2026-01-15",
			loc:       utc,
			wantYear:  2026,
			wantMonth: time.January,
			wantDay:   15,
			wantErr:   false,
		},
		{
			name:      "valid date in EST",
			dateStr:   "2025-12-31",
			loc:       est,
			wantYear:  2025,
			wantMonth: time.December,
			wantDay:   31,
			wantErr:   false,
		},
		{
			name:     "invalid format",
			dateStr:  "2026/01/15",
			loc:      utc,
			wantErr:  true,
		},
		{
			name:     "invalid date",
			dateStr:  "2026-13-01",
			loc:      utc,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateInLocation(tt.dateStr, tt.loc)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDateInLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if got.Year() != tt.wantYear {
					t.Errorf("ParseDateInLocation() year = %v, want %v", got.Year(), tt.wantYear)
				}
				if got.Month() != tt.wantMonth {
					t.Errorf("ParseDateInLocation() month = %v, want %v", got.Month(), tt.wantMonth)
				}
				if got.Day() != tt.wantDay {
					t.Errorf("ParseDateInLocation() day = %v, want %v", got.Day(), tt.wantDay)
				}
				if got.Location() != tt.loc {
					t.Errorf("ParseDateInLocation() location = %v, want %v", got.Location(), tt.loc)
				}
				// Should be at midnight
				if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
					t.Errorf("ParseDateInLocation() time = %02d:%02d:%02d, want 00:00:00", got.Hour(), got.Minute(), got.Second())
				}
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		want     bool
	}{
		{
			name:     "empty string is valid",
			timezone: "",
			want:     true,
		},
		{
			name:     "Local is valid",
			timezone: "Local",
			want:     true,
		},
		{
			name:     "UTC is valid",
			timezone: "UTC",
			want:     true,
		},
		{
			name:     "America/New_York is valid",
			timezone: "America/New_York",
			want:     true,
		},
		{
			name:     "Europe/London is valid",
			timezone: "Europe/London",
			want:     true,
		},
		{
			name:     "Asia/Tokyo is valid",
			timezone: "Asia/Tokyo",
			want:     true,
		},
		{
			name:     "Invalid/Timezone is invalid",
			timezone: "Invalid/Timezone",
			want:     false,
		},
		{
			name:     "random string is invalid",
			timezone: "not-a-timezone",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateTimezone(tt.timezone); got != tt.want {
				t.Errorf("ValidateTimezone() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{name: "valid", date: "2024-03-10", wantErr: false},
		{name: "leap day", date: "2024-02-29", wantErr: false},
		{name: "non-leap feb 29", date: "2023-02-29", wantErr: true},
		{name: "slashes", date: "2024/03/10", wantErr: true},
		{name: "missing zero padding", date: "2024-3-10", wantErr: true},
		{name: "empty", date: "", wantErr: true},
		{name: "trailing time", date: "2024-03-10T00:00:00Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDate(tt.date)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
			}
			if ValidateDate(tt.date) == tt.wantErr {
				t.Errorf("ValidateDate(%q) = %v, want %v", tt.date, !tt.wantErr, !tt.wantErr)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		date string
		n    int
		want string
	}{
		{name: "zero", date: "2024-03-10", n: 0, want: "2024-03-10"},
		{name: "forward across month", date: "2024-01-31", n: 1, want: "2024-02-01"},
		{name: "leap year", date: "2024-02-28", n: 1, want: "2024-02-29"},
		{name: "backward across year", date: "2024-01-01", n: -1, want: "2023-12-31"},
		{name: "dst spring forward", date: "2024-03-10", n: 1, want: "2024-03-11"},
		{name: "large window", date: "2024-01-01", n: -20, want: "2023-12-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddDays(tt.date, tt.n)
			if err != nil {
				t.Fatalf("AddDays() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AddDays(%q, %d) = %q, want %q", tt.date, tt.n, got, tt.want)
			}
		})
	}

	if _, err := AddDays("bad", 1); err == nil {
		t.Error("AddDays() with invalid date should fail")
	}
}

func TestDaysBetween(t *testing.T) {
	n, err := DaysBetween("2024-02-27", "2024-03-02")
	if err != nil {
		t.Fatalf("DaysBetween() error = %v", err)
	}
	if n != 4 {
		t.Errorf("DaysBetween() = %d, want 4", n)
	}

	n, err = DaysBetween("2024-03-02", "2024-02-27")
	if err != nil {
		t.Fatalf("DaysBetween() error = %v", err)
	}
	if n != -4 {
		t.Errorf("DaysBetween() reversed = %d, want -4", n)
	}
}

func TestDateRange(t *testing.T) {
	got, err := DateRange("2024-12-30", "2025-01-02")
	if err != nil {
		t.Fatalf("DateRange() error = %v", err)
	}
	want := []string{"2024-12-30", "2024-12-31", "2025-01-01", "2025-01-02"}
	if len(got) != len(want) {
		t.Fatalf("DateRange() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DateRange()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	got, err = DateRange("2025-01-02", "2024-12-30")
	if err != nil {
		t.Fatalf("DateRange() reversed error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("DateRange() reversed = %v, want empty", got)
	}
}

func TestTodayInLocation(t *testing.T) {
	tokyo, _ := time.LoadLocation("Asia/Tokyo")
	la, _ := time.LoadLocation("America/Los_Angeles")
	instant := time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)

	if got := TodayInLocation(instant, tokyo); got != "2024-06-01" {
		t.Errorf("TodayInLocation(tokyo) = %q, want 2024-06-01", got)
	}
	if got := TodayInLocation(instant, la); got != "2024-05-31" {
		t.Errorf("TodayInLocation(la) = %q, want 2024-05-31", got)
	}
}
