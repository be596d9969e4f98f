package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "RFC3339",
			input: `"2024-02-01T10:30:00Z"`,
			want:  time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339Nano",
			input: `"2024-02-01T10:30:00.123Z"`,
			want:  time.Date(2024, 2, 1, 10, 30, 0, 123000000, time.UTC),
		},
		{
			name:  "EpochMillis",
			input: `1706788800000`,
			want:  time.UnixMilli(1706788800000).UTC(),
		},
		{
			name:  "StringifiedMillis",
			input: `"1706788800000"`,
			want:  time.UnixMilli(1706788800000).UTC(),
		},
		{
			name:  "DateOnly",
			input: `"2024-02-01"`,
			want:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "Null",
			input: `null`,
			want:  time.Time{},
		},
		{
			name:  "EmptyString",
			input: `""`,
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
			}
			if !ts.Time.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, ts.Time, tt.want)
			}
		})
	}
}

func TestTimestampUnmarshalRejectsGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"not a time"`), &ts); err == nil {
		t.Error("Expected error for unparseable time string")
	}
	if err := json.Unmarshal([]byte(`{"nested": true}`), &ts); err == nil {
		t.Error("Expected error for object input")
	}
}

func TestTimestampMarshalRoundTrip(t *testing.T) {
	original := NewTimestamp(time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC))
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Timestamp
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.Time.Equal(original.Time) {
		t.Errorf("Round trip changed value: got %v, want %v", decoded.Time, original.Time)
	}
}

func TestTimestampZeroValues(t *testing.T) {
	var zero Timestamp
	if zero.UnixMilli() != 0 {
		t.Errorf("Zero timestamp UnixMilli = %d, want 0", zero.UnixMilli())
	}

	data, err := json.Marshal(zero)
	if err != nil {
		t.Fatalf("Marshal of zero timestamp failed: %v", err)
	}
	if string(data) != `""` {
		t.Errorf("Zero timestamp marshals to %s, want \"\"", data)
	}
}

func TestTimestampAfter(t *testing.T) {
	older := NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := NewTimestamp(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	if !newer.After(older) {
		t.Error("newer.After(older) = false, want true")
	}
	if older.After(newer) {
		t.Error("older.After(newer) = true, want false")
	}
	if older.After(older) {
		t.Error("After must be strict: equal timestamps compare false")
	}
}

func TestLooseBoolUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"false"`, false},
		{`null`, false},
	}

	for _, tt := range tests {
		var b LooseBool
		if err := json.Unmarshal([]byte(tt.input), &b); err != nil {
			t.Errorf("Unmarshal(%s) failed: %v", tt.input, err)
			continue
		}
		if bool(b) != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, bool(b), tt.want)
		}
	}

	var b LooseBool
	if err := json.Unmarshal([]byte(`1`), &b); err == nil {
		t.Error("Expected error for numeric boolean")
	}
}

func TestLooseBoolMarshalNormalizes(t *testing.T) {
	var b LooseBool
	if err := json.Unmarshal([]byte(`"true"`), &b); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `true` {
		t.Errorf("Marshal = %s, want true (quoted input must normalize)", data)
	}
}

func TestRestaurantDecodeFromAPI(t *testing.T) {
	// A record shaped the way the stage-3 server actually emits it:
	// stringified favorite flag and epoch-millis timestamps.
	payload := `{
		"id": 3,
		"name": "Kang Ho Dong Baekjeong",
		"neighborhood": "Manhattan",
		"photograph": "3",
		"address": "35 W 32nd St, New York, NY 10001",
		"latlng": {"lat": 40.747143, "lng": -73.985414},
		"cuisine_type": "Korean",
		"operating_hours": {"Monday": "11:00 am - 2:00 am"},
		"is_favorite": "true",
		"createdAt": 1504095563444,
		"updatedAt": "2024-02-01T10:30:00Z"
	}`

	var r Restaurant
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if r.ID != 3 {
		t.Errorf("ID = %d, want 3", r.ID)
	}
	if r.CuisineType != "Korean" {
		t.Errorf("CuisineType = %q, want Korean", r.CuisineType)
	}
	if !bool(r.IsFavorite) {
		t.Error("IsFavorite = false, want true (quoted form)")
	}
	if r.LatLng.Lat == 0 || r.LatLng.Lng == 0 {
		t.Error("LatLng not decoded")
	}
	if r.CreatedAt.IsZero() || r.UpdatedAt.IsZero() {
		t.Error("Timestamps not decoded")
	}
	if r.OperatingHours["Monday"] == "" {
		t.Error("OperatingHours not decoded")
	}
}

func TestImageBasename(t *testing.T) {
	withPhoto := Restaurant{ID: 5, Photograph: "5-large"}
	if got := withPhoto.ImageBasename(); got != "5-large" {
		t.Errorf("ImageBasename = %q, want 5-large", got)
	}

	// Newer API revisions drop the photograph field; the id fills in.
	withoutPhoto := Restaurant{ID: 7}
	if got := withoutPhoto.ImageBasename(); got != "7" {
		t.Errorf("ImageBasename = %q, want 7", got)
	}
}

func TestPendingReviewValidate(t *testing.T) {
	valid := PendingReview{
		Name:         "Ana",
		Rating:       4,
		Comments:     "Great bibimbap",
		RestaurantID: 3,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid review rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*PendingReview)
	}{
		{"MissingName", func(p *PendingReview) { p.Name = "" }},
		{"RatingTooLow", func(p *PendingReview) { p.Rating = 0 }},
		{"RatingTooHigh", func(p *PendingReview) { p.Rating = 6 }},
		{"MissingComments", func(p *PendingReview) { p.Comments = "" }},
		{"MissingRestaurant", func(p *PendingReview) { p.RestaurantID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := valid
			tt.mutate(&review)
			if err := review.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}
