package irrigation

import "testing"

func TestDecodeReadingCoercion(t *testing.T) {
	body := []byte(`{
		"soil_moisture": 21.5,
		"soil_temp": "19.25",
		"soil_ph": "acidic",
		"tank_level": true,
		"ambient_humidity": null,
		"ambient_temp": [1, 2],
		"timestamp": 1729339200,
		"user_id": "42"
	}`)

	r, err := DecodeReading(body)
	if err != nil {
		t.Fatalf("DecodeReading: %v", err)
	}

	assertFloat(t, "soil_moisture", r.SoilMoisture, 21.5)
	assertFloat(t, "soil_temp", r.SoilTemp, 19.25)
	assertFloat(t, "tank_level", r.TankLevel, 1)
	for name, p := range map[string]*float64{
		"soil_ph":          r.SoilPH,
		"ambient_humidity": r.AmbientHumidity,
		"ambient_temp":     r.AmbientTemp,
	} {
		if p != nil {
			t.Errorf("%s = %v, want nil", name, *p)
		}
	}
	if r.Timestamp != "1729339200" {
		t.Errorf("Timestamp = %q, want 1729339200", r.Timestamp)
	}
	if r.UserID != 42 {
		t.Errorf("UserID = %d, want 42", r.UserID)
	}
}

func TestDecodeReadingRejectsNaN(t *testing.T) {
	r, err := DecodeReading([]byte(`{"soil_moisture": "NaN", "tank_level": "inf"}`))
	if err != nil {
		t.Fatalf("DecodeReading: %v", err)
	}
	if r.SoilMoisture != nil || r.TankLevel != nil {
		t.Fatalf("expected NaN/Inf to be treated as missing, got %+v", r)
	}
}

func TestDecodeReadingEmptyAndMalformed(t *testing.T) {
	for _, body := range []string{"", "   ", "null"} {
		r, err := DecodeReading([]byte(body))
		if err != nil {
			t.Errorf("DecodeReading(%q): %v", body, err)
		}
		if r != (Reading{}) {
			t.Errorf("DecodeReading(%q) = %+v, want empty", body, r)
		}
	}

	for _, body := range []string{"{", "[1,2]", `"text"`} {
		r, err := DecodeReading([]byte(body))
		if err == nil {
			t.Errorf("DecodeReading(%q): expected error", body)
		}
		if r != (Reading{}) {
			t.Errorf("DecodeReading(%q) = %+v, want empty", body, r)
		}
	}
}

func assertFloat(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %v", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}
