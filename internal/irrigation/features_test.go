package irrigation

import "testing"

func ptr(f float64) *float64 { return &f }

func TestBuildFeaturesDefaults(t *testing.T) {
	got := BuildFeatures(Reading{}, 3.5)
	want := FeatureVector{SoilPH: DefaultSoilPH, RainNext48h: 3.5}
	if got != want {
		t.Fatalf("BuildFeatures(empty) = %+v, want %+v", got, want)
	}
}

func TestBuildFeaturesMissingPH(t *testing.T) {
	r := Reading{SoilMoisture: ptr(22), TankLevel: ptr(50)}
	if got := BuildFeatures(r, 0).SoilPH; got != 7.0 {
		t.Fatalf("SoilPH = %v, want 7.0", got)
	}
}

func TestBuildFeaturesCopiesValues(t *testing.T) {
	r := Reading{
		SoilMoisture:    ptr(18.5),
		SoilTemp:        ptr(24),
		SoilPH:          ptr(6.4),
		TankLevel:       ptr(80),
		AmbientHumidity: ptr(55),
		AmbientTemp:     ptr(31.2),
	}
	got := BuildFeatures(r, 1.25)
	want := FeatureVector{18.5, 24, 6.4, 80, 55, 31.2, 1.25}
	if got != want {
		t.Fatalf("BuildFeatures() = %+v, want %+v", got, want)
	}
}

func TestBuildFeaturesIdempotent(t *testing.T) {
	r := Reading{SoilMoisture: ptr(12), AmbientTemp: ptr(-3)}
	if a, b := BuildFeatures(r, 4), BuildFeatures(r, 4); a != b {
		t.Fatalf("BuildFeatures not idempotent: %+v != %+v", a, b)
	}
}

func TestFeatureVectorValuesFollowNames(t *testing.T) {
	v := FeatureVector{1, 2, 3, 4, 5, 6, 7}
	values := v.Values()
	names := FeatureNames()
	if len(values) != len(names) {
		t.Fatalf("len(values) = %d, len(names) = %d", len(values), len(names))
	}
	for i, name := range names {
		got, ok := v.Get(name)
		if !ok {
			t.Fatalf("Get(%q) not found", name)
		}
		if got != values[i] {
			t.Errorf("Get(%q) = %v, Values()[%d] = %v", name, got, i, values[i])
		}
	}
	if _, ok := v.Get("rain_next_24h"); ok {
		t.Error("Get of unknown feature should fail")
	}
}

func TestFeatureNamesReturnsCopy(t *testing.T) {
	names := FeatureNames()
	names[0] = "mutated"
	if FeatureNames()[0] != FeatureSoilMoisture {
		t.Fatal("FeatureNames exposed its backing slice")
	}
}
