package scoring

import "testing"

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   int
	}{
		{"zero", 0, 1},
		{"just below first threshold", 99, 1},
		{"first threshold", 100, 2},
		{"mid band", 250, 3},
		{"negative total", -30, 1},
		{"large negative total", -1000, 1},
		{"level 99 ceiling", 9899, 99},
		{"cap reached", 9900, 100},
		{"far beyond cap", 1_000_000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateLevel(tt.points); got != tt.want {
				t.Errorf("CalculateLevel(%d) = %d, want %d", tt.points, got, tt.want)
			}
		})
	}
}

func TestCalculateLevel_Monotonic(t *testing.T) {
	prev := CalculateLevel(0)
	for p := 1; p <= 12000; p++ {
		got := CalculateLevel(p)
		if got < prev {
			t.Fatalf("CalculateLevel(%d) = %d, less than CalculateLevel(%d) = %d", p, got, p-1, prev)
		}
		if got < MinLevel || got > MaxLevel {
			t.Fatalf("CalculateLevel(%d) = %d, outside [%d, %d]", p, got, MinLevel, MaxLevel)
		}
		prev = got
	}
}

func TestCalculateLevel_Pure(t *testing.T) {
	for _, p := range []int{-5, 0, 42, 100, 5555, 9900} {
		if a, b := CalculateLevel(p), CalculateLevel(p); a != b {
			t.Errorf("CalculateLevel(%d) not stable: %d then %d", p, a, b)
		}
	}
}

func TestLevelProgress(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   Progress
	}{
		{"start", 0, Progress{Level: 1, PointsInLevel: 0, PointsToNext: 100, NextLevelFloor: 100}},
		{"mid level 3", 250, Progress{Level: 3, PointsInLevel: 50, PointsToNext: 50, NextLevelFloor: 300}},
		{"negative", -20, Progress{Level: 1, PointsInLevel: 0, PointsToNext: 120, NextLevelFloor: 100}},
		{"capped", 10050, Progress{Level: 100, PointsInLevel: 150, PointsToNext: 0, NextLevelFloor: 9900}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelProgress(tt.points); got != tt.want {
				t.Errorf("LevelProgress(%d) = %+v, want %+v", tt.points, got, tt.want)
			}
		})
	}
}
