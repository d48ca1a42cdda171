package harvest

import "testing"

func TestMatchesIncidentalOutput(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"primary_1.txt", true},
		{"primary_", true},
		{"galaxy.json", true},
		{"metadata_INFO", true},
		{"dataset_42.dat", true},
		{"dataset_7_files.tar", true},
		{"dataset_7_filesx", true},
		{"report.html", false},
		{"galaxyXjson", false},
		{"dataset_.dat", false},
		{"dataset_42.datx", false},
		{"dataset_7_files", false},
		{"xprimary_1.txt", false},
		{"PRIMARY_1", false},
	}
	for _, tc := range cases {
		if got := MatchesIncidentalOutput(tc.name); got != tc.want {
			t.Errorf("MatchesIncidentalOutput(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
