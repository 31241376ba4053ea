package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestReadingBodyFromFlags(t *testing.T) {
	predictFile = ""
	cmd := predictCmd
	t.Cleanup(func() {
		for _, name := range append(sensorFlags, "user-id") {
			if f := cmd.Flags().Lookup(flagName(name)); f != nil {
				f.Value.Set(f.DefValue)
				f.Changed = false
			}
		}
	})

	if err := cmd.Flags().Parse([]string{"--soil-moisture", "20", "--tank-level", "0", "--user-id", "3"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	body, err := readingBody(cmd)
	if err != nil {
		t.Fatalf("readingBody: %v", err)
	}
	var got map[string]float64
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]float64{"soil_moisture": 20, "tank_level": 0, "user_id": 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestReadingBodyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reading.json")
	if err := os.WriteFile(path, []byte(`{"soil_ph": 6.5}`), 0o644); err != nil {
		t.Fatal(err)
	}
	predictFile = path
	t.Cleanup(func() { predictFile = "" })

	body, err := readingBody(predictCmd)
	if err != nil {
		t.Fatalf("readingBody: %v", err)
	}
	if string(body) != `{"soil_ph": 6.5}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestFlagName(t *testing.T) {
	if got := flagName("ambient_humidity"); got != "ambient-humidity" {
		t.Fatalf("flagName = %q", got)
	}
}
