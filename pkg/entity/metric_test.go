package entity

import (
	"testing"

	"github.com/matzehuels/bubblerow/pkg/errors"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		input   string
		want    Metric
		wantErr bool
	}{
		{"persons", Persons, false},
		{"  Persons ", Persons, false},
		{"numberOfPersons", Persons, false},
		{"turnover", Turnover, false},
		{"yearlyTurnOver", Turnover, false},
		{"turnover-per-person", TurnoverPerPerson, false},
		{"turnoverPerPerson", TurnoverPerPerson, false},
		{"height", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMetric(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMetric(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidMetric) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidMetric)
			}
			if got != tt.want {
				t.Errorf("ParseMetric(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValueOf(t *testing.T) {
	e := Entity{ID: 1, Name: "Town", Persons: 200, Turnover: 10_000}

	tests := []struct {
		metric Metric
		want   float64
	}{
		{Persons, 200},
		{Turnover, 10_000},
		{TurnoverPerPerson, 50},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			if got := ValueOf(e, tt.metric); got != tt.want {
				t.Errorf("ValueOf(%s) = %v, want %v", tt.metric, got, tt.want)
			}
		})
	}
}

func TestValueOfZeroDenominator(t *testing.T) {
	e := Entity{ID: 1, Name: "Shell company", Persons: 0, Turnover: 1_000_000}
	if got := TurnoverPerPerson.ValueOf(e); got != 0 {
		t.Errorf("TurnoverPerPerson with zero persons = %v, want 0", got)
	}
}

func TestValueOfUnknownMetricPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ValueOf with unknown metric should panic")
		}
	}()
	Metric("height").ValueOf(Entity{})
}

func TestMetricNext(t *testing.T) {
	if got := Persons.Next(); got != Turnover {
		t.Errorf("Persons.Next() = %v", got)
	}
	if got := TurnoverPerPerson.Next(); got != Persons {
		t.Errorf("TurnoverPerPerson.Next() = %v, want wrap to %v", got, Persons)
	}
	if got := Metric("bogus").Next(); got != Persons {
		t.Errorf("unknown.Next() = %v, want %v", got, Persons)
	}
}

func TestMetricValid(t *testing.T) {
	for _, m := range Metrics {
		if !m.Valid() {
			t.Errorf("%q should be valid", m)
		}
		if m.Label() == string(m) {
			t.Errorf("%q has no label", m)
		}
	}
	if Metric("bogus").Valid() {
		t.Error("bogus metric should be invalid")
	}
}

func TestAccessorFunc(t *testing.T) {
	neg := AccessorFunc(func(e Entity) float64 { return -e.Persons })
	if got := neg.ValueOf(Entity{Persons: 3}); got != -3 {
		t.Errorf("AccessorFunc.ValueOf = %v, want -3", got)
	}
}
