package omnifocus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTransportText(t *testing.T) {
	tests := []struct {
		name    string
		input   TaskInput
		want    string
		wantErr bool
	}{
		{
			name:  "name only",
			input: TaskInput{Name: "Buy milk"},
			want:  "Buy milk",
		},
		{
			name: "full grammar",
			input: TaskInput{
				Name:    "Buy milk",
				Project: "Home",
				Tags:    []string{"errand"},
				DueDate: "tomorrow",
				Flagged: true,
			},
			want: "Buy milk ::Home @errand #tomorrow !",
		},
		{
			name: "defer precedes due",
			input: TaskInput{
				Name:      "Review report",
				DeferDate: "monday",
				DueDate:   "friday",
			},
			want: "Review report #monday #friday",
		},
		{
			name: "legacy context becomes a tag",
			input: TaskInput{
				Name:    "Call plumber",
				Tags:    []string{"home"},
				Context: "phone",
			},
			want: "Call plumber @home @phone",
		},
		{
			name: "multiple tags",
			input: TaskInput{
				Name: "Pack bags",
				Tags: []string{"travel", "weekend"},
			},
			want: "Pack bags @travel @weekend",
		},
		{
			name:    "name with tag marker is unencodable",
			input:   TaskInput{Name: "Email team@example.com"},
			wantErr: true,
		},
		{
			name:    "name with project marker is unencodable",
			input:   TaskInput{Name: "Fix issue::123"},
			wantErr: true,
		},
		{
			name:    "name with newline is unencodable",
			input:   TaskInput{Name: "line one\nline two"},
			wantErr: true,
		},
		{
			name:    "project with hash is unencodable",
			input:   TaskInput{Name: "Plan", Project: "Q3 #goals"},
			wantErr: true,
		},
		{
			name:    "tag with bang is unencodable",
			input:   TaskInput{Name: "Plan", Tags: []string{"urgent!"}},
			wantErr: true,
		},
		{
			name:    "empty tag is unencodable",
			input:   TaskInput{Name: "Plan", Tags: []string{""}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeTransportText(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsKind(err, KindEncoding), "expected encoding error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTransportText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want TaskInput
	}{
		{
			name: "name only",
			text: "Buy milk",
			want: TaskInput{Name: "Buy milk"},
		},
		{
			name: "full grammar",
			text: "Buy milk ::Home @errand #tomorrow !",
			want: TaskInput{
				Name:    "Buy milk",
				Project: "Home",
				Tags:    []string{"errand"},
				DueDate: "tomorrow",
				Flagged: true,
			},
		},
		{
			name: "single date is due",
			text: "Submit report #friday",
			want: TaskInput{Name: "Submit report", DueDate: "friday"},
		},
		{
			name: "two dates are defer then due",
			text: "Submit report #monday #friday",
			want: TaskInput{Name: "Submit report", DeferDate: "monday", DueDate: "friday"},
		},
		{
			name: "unmarked tokens extend the current value",
			text: "Plan trip ::Summer Vacation @deep work #next week",
			want: TaskInput{
				Name:    "Plan trip",
				Project: "Summer Vacation",
				Tags:    []string{"deep work"},
				DueDate: "next week",
			},
		},
		{
			name: "empty input",
			text: "",
			want: TaskInput{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTransportText(tt.text))
		})
	}
}

// Every encodable input must survive an encode/parse round trip.
func TestTransportTextRoundTrip(t *testing.T) {
	inputs := []TaskInput{
		{Name: "Buy milk"},
		{Name: "Buy milk", Project: "Home", Tags: []string{"errand"}, DueDate: "tomorrow", Flagged: true},
		{Name: "Review long report", DeferDate: "monday", DueDate: "friday"},
		{Name: "Multi word task name", Project: "Multi Word Project", Tags: []string{"tag one", "tag two"}},
	}

	for _, in := range inputs {
		t.Run(in.Name, func(t *testing.T) {
			text, err := EncodeTransportText(in)
			require.NoError(t, err)
			assert.Equal(t, in, ParseTransportText(text))
		})
	}
}
