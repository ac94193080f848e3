package normalize

import "testing"

func warningRecords() map[string]any {
	return map[string]any{
		"record": []any{
			map[string]any{
				"phenomena":    "豪雨",
				"hazardLevel":  "特報",
				"locationName": []any{"宜蘭縣", "花蓮縣"},
				"validTime": map[string]any{
					"startTime": "2025-06-01 10:00:00",
					"endTime":   "2025-06-02 10:00:00",
				},
				"datasetInfo": map[string]any{"publishTime": "2025-06-01 09:30:00"},
				"contents":    map[string]any{"content": "山區防范坍方落石。"},
			},
			map[string]any{
				"phenomena":    "濃霧",
				"locationName": "金門縣",
				"validTime":    map[string]any{"startTime": "2025-06-01 04:00:00"},
			},
		},
	}
}

func TestWarnings(t *testing.T) {
	warnings := Warnings(warningRecords(), "", "")
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2", len(warnings))
	}

	first := warnings[0]
	if first.HazardType != "豪雨" || first.HazardLevel != "特報" {
		t.Errorf("hazard = %q/%q", first.HazardType, first.HazardLevel)
	}
	if len(first.Locations) != 2 || first.Locations[0] != "宜蘭縣" {
		t.Errorf("locations = %v", first.Locations)
	}
	if first.IssuedTime != "2025-06-01 09:30:00" {
		t.Errorf("issued time = %q", first.IssuedTime)
	}
	if first.Content != "山區防范坍方落石。" {
		t.Errorf("content = %q", first.Content)
	}

	second := warnings[1]
	if second.EndTime != unknownValue {
		t.Errorf("missing end time should read %s, got %q", unknownValue, second.EndTime)
	}
	if second.Content != "無詳細資訊" {
		t.Errorf("missing content fallback = %q", second.Content)
	}
	if len(second.Locations) != 1 || second.Locations[0] != "金門縣" {
		t.Errorf("bare-string location = %v", second.Locations)
	}
}

func TestWarningsHazardFilter(t *testing.T) {
	warnings := Warnings(warningRecords(), "豪雨", "")
	if len(warnings) != 1 || warnings[0].HazardType != "豪雨" {
		t.Errorf("hazard filter result = %+v", warnings)
	}
}

func TestWarningsLocationFilter(t *testing.T) {
	warnings := Warnings(warningRecords(), "", "花蓮")
	if len(warnings) != 1 || warnings[0].HazardType != "豪雨" {
		t.Errorf("location filter result = %+v", warnings)
	}

	warnings = Warnings(warningRecords(), "", "澎湖縣")
	if len(warnings) != 0 {
		t.Errorf("expected no match, got %+v", warnings)
	}
}

func TestWarningsEmptyRecordList(t *testing.T) {
	warnings := Warnings(map[string]any{"record": []any{}}, "", "")
	if warnings == nil || len(warnings) != 0 {
		t.Errorf("empty record list should yield an empty non-nil slice, got %#v", warnings)
	}
}
