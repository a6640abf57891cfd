package progression

// Stage is a growth tier derived purely from the current streak.
type Stage string

const (
	StageSeed   Stage = "Seed"
	StageSprout Stage = "Sprout"
	StagePlant  Stage = "Plant"
	StageTree   Stage = "Tree"
	StageForest Stage = "Forest"
)

var stageThresholds = []struct {
	Stage Stage
	Days  int
}{
	{StageSeed, 0},
	{StageSprout, 3},
	{StagePlant, 7},
	{StageTree, 14},
	{StageForest, 30},
}

// StageInfo describes the resolved growth stage and progress toward the next.
type StageInfo struct {
	Stage Stage
	// Progress is the fraction toward the next stage in [0, 1]; fixed at
	// 1 once the final stage is reached.
	Progress float64
	// NextStage is empty at the final stage.
	NextStage Stage
	// DaysToNext is 0 at the final stage.
	DaysToNext int
}

// ResolveStage maps a streak to its growth stage. The stage is never stored;
// every consumer derives it through this function so it cannot drift.
func ResolveStage(streak int) StageInfo {
	if streak < 0 {
		streak = 0
	}

	idx := 0
	for i, t := range stageThresholds {
		if streak >= t.Days {
			idx = i
		}
	}

	if idx == len(stageThresholds)-1 {
		return StageInfo{Stage: stageThresholds[idx].Stage, Progress: 1}
	}

	cur := stageThresholds[idx]
	next := stageThresholds[idx+1]
	progress := float64(streak-cur.Days) / float64(next.Days-cur.Days)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	return StageInfo{
		Stage:      cur.Stage,
		Progress:   progress,
		NextStage:  next.Stage,
		DaysToNext: next.Days - streak,
	}
}
