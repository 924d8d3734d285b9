package domain

import (
	"testing"
)

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name       string
		similarity float64
		want       Priority
	}{
		{"well above high threshold", 0.95, PriorityHigh},
		{"exactly high threshold", 0.85, PriorityHigh},
		{"just below high threshold", 0.8499, PriorityMedium},
		{"exactly medium threshold", 0.70, PriorityMedium},
		{"just below medium threshold", 0.6999, PriorityLow},
		{"zero", 0.0, PriorityLow},
		{"one", 1.0, PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyPriority(tt.similarity); got != tt.want {
				t.Errorf("ClassifyPriority(%v) = %v, want %v", tt.similarity, got, tt.want)
			}
		})
	}
}

func TestPriority_Rank(t *testing.T) {
	if PriorityHigh.Rank() >= PriorityMedium.Rank() {
		t.Error("ALTA must rank before MEDIA")
	}
	if PriorityMedium.Rank() >= PriorityLow.Rank() {
		t.Error("MEDIA must rank before BAJA")
	}
	if Priority("whatever").Rank() <= PriorityLow.Rank() {
		t.Error("unknown priority must rank last")
	}
}

func TestAlert_Transition(t *testing.T) {
	tests := []struct {
		name    string
		from    AlertState
		to      AlertState
		wantErr error
		want    AlertState
	}{
		{"pending to reviewed", StatePending, StateReviewed, nil, StateReviewed},
		{"pending to false positive", StatePending, StateFalsePositive, nil, StateFalsePositive},
		{"reviewed is terminal", StateReviewed, StateFalsePositive, ErrAlertAlreadyClosed, StateReviewed},
		{"false positive is terminal", StateFalsePositive, StateReviewed, ErrAlertAlreadyClosed, StateFalsePositive},
		{"cannot transition back to pending", StatePending, StatePending, ErrInvalidState, StatePending},
		{"rejects unknown state", StatePending, AlertState("CERRADA"), ErrInvalidState, StatePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Alert{State: tt.from}
			err := a.Transition(tt.to)
			if err != tt.wantErr {
				t.Errorf("Transition() error = %v, want %v", err, tt.wantErr)
			}
			if a.State != tt.want {
				t.Errorf("Transition() state = %v, want %v", a.State, tt.want)
			}
		})
	}
}

func TestAlert_Transition_SetsFalsePositiveFlag(t *testing.T) {
	a := &Alert{State: StatePending}
	if err := a.Transition(StateFalsePositive); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if !a.FalsePositive {
		t.Error("FalsePositive flag not set on FALSO_POSITIVO transition")
	}

	b := &Alert{State: StatePending}
	if err := b.Transition(StateReviewed); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if b.FalsePositive {
		t.Error("FalsePositive flag must stay false on REVISADA transition")
	}
}

func TestAlert_OverridePriority(t *testing.T) {
	// An override intentionally decouples priority from similarity.
	a := &Alert{Similarity: 0.95, Priority: ClassifyPriority(0.95)}
	if a.Priority != PriorityHigh {
		t.Fatalf("expected ALTA before override, got %v", a.Priority)
	}

	if err := a.OverridePriority(PriorityLow); err != nil {
		t.Fatalf("OverridePriority() error = %v", err)
	}
	if a.Priority != PriorityLow {
		t.Errorf("priority = %v, want BAJA after override", a.Priority)
	}
	if a.Similarity != 0.95 {
		t.Errorf("similarity must not change on override")
	}

	if err := a.OverridePriority(Priority("URGENTE")); err != ErrInvalidPriority {
		t.Errorf("OverridePriority() error = %v, want ErrInvalidPriority", err)
	}
}

func TestAlert_IsHighPriority(t *testing.T) {
	if !(&Alert{Priority: PriorityHigh}).IsHighPriority() {
		t.Error("ALTA must report high priority")
	}
	if (&Alert{Priority: PriorityMedium}).IsHighPriority() {
		t.Error("MEDIA must not report high priority")
	}
}
