package models

import "testing"

func validForecast() Forecast {
	return Forecast{
		Currency:     "BTC",
		CurrentPrice: 48000,
		TargetPrice:  52000,
		Expiry:       1750000000000,
		Strategy:     StrategySingle,
	}
}

func TestForecast_Direction(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		want    Direction
	}{
		{"target above spot", 48000, 52000, DirectionBullish},
		{"target below spot", 48000, 44000, DirectionBearish},
		{"target equals spot resolves bearish", 48000, 48000, DirectionBearish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Forecast{CurrentPrice: tt.current, TargetPrice: tt.target}
			if got := f.Direction(); got != tt.want {
				t.Errorf("Direction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForecast_OptionType(t *testing.T) {
	bullish := Forecast{CurrentPrice: 100, TargetPrice: 110}
	if got := bullish.OptionType(); got != OptionTypeCall {
		t.Errorf("bullish forecast should search calls, got %v", got)
	}

	flat := Forecast{CurrentPrice: 100, TargetPrice: 100}
	if got := flat.OptionType(); got != OptionTypePut {
		t.Errorf("flat forecast should search puts (bearish tie-break), got %v", got)
	}
}

func TestForecast_Validate(t *testing.T) {
	if err := validForecast().Validate(); err != nil {
		t.Fatalf("valid forecast rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Forecast)
	}{
		{"missing currency", func(f *Forecast) { f.Currency = "" }},
		{"zero current price", func(f *Forecast) { f.CurrentPrice = 0 }},
		{"negative target price", func(f *Forecast) { f.TargetPrice = -1 }},
		{"missing expiry", func(f *Forecast) { f.Expiry = 0 }},
		{"unknown strategy", func(f *Forecast) { f.Strategy = "straddle" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForecast()
			tt.mutate(&f)
			if err := f.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
