package prefabs

import "testing"

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    ChangeKind
		watched bool
	}{
		{"scene_yaml", "prefabs/sandbox.yaml", ChangeScene, true},
		{"scene_yml_upper", "prefabs/ARENA.YML", ChangeScene, true},
		{"tuning_yaml", "prefabs/tuning.yaml", ChangeTuning, true},
		{"tuning_variant", "prefabs/tuning_slow.yaml", ChangeTuning, true},
		{"script", "prefabs/scripts/drifter.tengo", ChangeScript, true},
		{"tuning_named_script", "prefabs/scripts/tuning.tengo", ChangeScript, true},
		{"editor_swap", "prefabs/sandbox.yaml~", 0, false},
		{"unrelated", "prefabs/notes.txt", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifyChange(tt.path)
			if ok != tt.watched {
				t.Fatalf("classifyChange(%q) watched = %v, want %v", tt.path, ok, tt.watched)
			}
			if ok && got != tt.want {
				t.Fatalf("classifyChange(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
