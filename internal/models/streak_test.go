package models

import "testing"

func TestDefaultGoal(t *testing.T) {
	g := DefaultGoal()
	if g.ID != "userGoal" {
		t.Errorf("ID = %q, want userGoal", g.ID)
	}
	if g.TargetDays != 60 {
		t.Errorf("TargetDays = %d, want 60", g.TargetDays)
	}
	if g.CurrentStreakDays != 0 {
		t.Errorf("CurrentStreakDays = %d, want 0", g.CurrentStreakDays)
	}
	if g.LastStreakUpdate != nil {
		t.Error("LastStreakUpdate should be nil for a fresh goal")
	}
}

func TestGoalState_Progress(t *testing.T) {
	tests := []struct {
		name      string
		goal      GoalState
		want      float64
		reached   bool
		remaining int
	}{
		{name: "empty", goal: GoalState{TargetDays: 60}, want: 0, remaining: 60},
		{name: "halfway", goal: GoalState{TargetDays: 10, CurrentStreakDays: 5}, want: 0.5, remaining: 5},
		{name: "reached", goal: GoalState{TargetDays: 10, CurrentStreakDays: 10}, want: 1, reached: true},
		{name: "past target clamps", goal: GoalState{TargetDays: 10, CurrentStreakDays: 25}, want: 1, reached: true},
		{name: "zero target", goal: GoalState{TargetDays: 0, CurrentStreakDays: 3}, want: 0, remaining: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.goal.Progress(); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
			if got := tt.goal.Reached(); got != tt.reached {
				t.Errorf("Reached() = %v, want %v", got, tt.reached)
			}
			if got := tt.goal.DaysRemaining(); got != tt.remaining {
				t.Errorf("DaysRemaining() = %d, want %d", got, tt.remaining)
			}
		})
	}
}
