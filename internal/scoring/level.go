// Package scoring holds the pure point and level rules.
//
// Nothing here touches storage. Callers load the user and task, apply these
// functions, and persist the result inside one transaction.
package scoring

const (
	// PointsPerLevel is the width of every level band.
	PointsPerLevel = 100
	MinLevel       = 1
	MaxLevel       = 100
)

// CalculateLevel maps a point total to a level.
//
// Level L covers [(L-1)*100, L*100). Totals below zero stay at level 1 and
// totals at or above 9900 are capped at level 100.
//
//	CalculateLevel(0)     == 1
//	CalculateLevel(99)    == 1
//	CalculateLevel(100)   == 2
//	CalculateLevel(9900)  == 100
//	CalculateLevel(-30)   == 1
func CalculateLevel(totalPoints int) int {
	if totalPoints < 0 {
		return MinLevel
	}
	level := totalPoints/PointsPerLevel + 1
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Progress describes where a point total sits inside its level band.
type Progress struct {
	Level          int
	PointsInLevel  int // points earned since the current level's floor
	PointsToNext   int // points still needed for the next level; 0 at MaxLevel
	NextLevelFloor int // total needed to reach the next level
}

// LevelProgress returns the level band details for totalPoints.
func LevelProgress(totalPoints int) Progress {
	level := CalculateLevel(totalPoints)
	floor := (level - 1) * PointsPerLevel
	next := level * PointsPerLevel

	p := Progress{
		Level:          level,
		PointsInLevel:  max(totalPoints-floor, 0),
		PointsToNext:   max(next-totalPoints, 0),
		NextLevelFloor: next,
	}
	if level == MaxLevel {
		p.PointsToNext = 0
		p.NextLevelFloor = floor
	}
	return p
}
