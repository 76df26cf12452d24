package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		Seed:        42,
		Tick:        1000,
		Time:        16.67,
		WorldWidth:  4096,
		WorldHeight: 4096,
		Entities: []EntityState{
			{
				ID: 1, Kind: KindMine, X: 150, Y: 250, Z: 16, VelX: 40, VelY: -3,
				Radius: 16, Health: 100, Spikes: true, Target: 7,
				Path: [][2]float64{{150, 250}, {400, 260}},
			},
			{ID: 7, Kind: KindPlayer, X: 420, Y: 260, Radius: 24, Health: 55},
			{ID: 9, Kind: KindProp, X: 900, Y: 900, Radius: 20, Health: 40},
		},
		Bookmark: &Bookmark{Type: BookmarkFirstKill, Tick: 1000, Description: "test"},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_1000_first_kill.json"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.Tick != snapshot.Tick || loaded.Seed != snapshot.Seed {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if len(loaded.Entities) != 3 {
		t.Fatalf("entity count = %d, want 3", len(loaded.Entities))
	}
	m := loaded.Entities[0]
	if !m.Spikes || m.Target != 7 || len(m.Path) != 2 || m.Path[1] != [2]float64{400, 260} {
		t.Errorf("mine state mismatch: %+v", m)
	}
	if loaded.Count(KindPlayer) != 1 || loaded.Count(KindMine) != 1 {
		t.Errorf("counts: players=%d mines=%d", loaded.Count(KindPlayer), loaded.Count(KindMine))
	}
}

func TestSnapshotOmitsIdleMineFields(t *testing.T) {
	data, err := json.Marshal(EntityState{ID: 2, Kind: KindPlayer})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"stunned", "spikes", "target", "path"} {
		if _, ok := raw[key]; ok {
			t.Errorf("unexpected key %q in %s", key, data)
		}
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "tick": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}
