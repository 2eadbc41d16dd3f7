package domain

import "time"

type CrackingSettings struct {
	Charset   string
	MinLength int
	MaxLength int
	Workers   int
	BatchSize int
	Prefilter bool
}

// CrackResult is the caller-facing view of the shared result cell.
type CrackResult struct {
	Found    bool   `json:"found" yaml:"found"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// Partition is the half-open index range [Start, End) owned by one worker.
type Partition struct {
	Worker int
	Start  uint64
	End    uint64
}

func (p Partition) Len() uint64 {
	return p.End - p.Start
}

type ResourceMetrics struct {
	CPUUsage       float64   `json:"cpuUsage" yaml:"cpuUsage"`
	MemoryUsageMB  int64     `json:"memoryUsageMb" yaml:"memoryUsageMb"`
	SystemMemPct   float64   `json:"systemMemoryPercent" yaml:"systemMemoryPercent"`
	AttemptsPerSec int64     `json:"attemptsPerSec" yaml:"attemptsPerSec"`
	TotalAttempts  int64     `json:"totalAttempts" yaml:"totalAttempts"`
	ActiveThreads  int       `json:"activeThreads" yaml:"activeThreads"`
	LastUpdated    time.Time `json:"lastUpdated" yaml:"lastUpdated"`
}

type JobProgress struct {
	RunID         string      `json:"runId"`
	State         SearchState `json:"state"`
	Attempts      uint64      `json:"attempts"`
	Screened      uint64      `json:"screened"`
	Total         uint64      `json:"total"`
	Progress      float64     `json:"progress"`
	Speed         int64       `json:"speed"`
	ActiveThreads int         `json:"activeThreads"`
}

type RunReport struct {
	RunID      string          `json:"runId" yaml:"runId"`
	Container  string          `json:"container" yaml:"container"`
	Backend    Backend         `json:"backend,omitempty" yaml:"backend,omitempty"`
	State      SearchState     `json:"state" yaml:"state"`
	Result     CrackResult     `json:"result" yaml:"result"`
	Charset    string          `json:"charset" yaml:"charset"`
	MinLength  int             `json:"minLength" yaml:"minLength"`
	MaxLength  int             `json:"maxLength" yaml:"maxLength"`
	Workers    int             `json:"workers" yaml:"workers"`
	SpaceSize  uint64          `json:"spaceSize" yaml:"spaceSize"`
	Attempts   uint64          `json:"attempts" yaml:"attempts"`
	Skipped    uint64          `json:"skipped" yaml:"skipped"`
	Prefilter  string          `json:"prefilter" yaml:"prefilter"`
	StartTime  time.Time       `json:"startTime" yaml:"startTime"`
	EndTime    time.Time       `json:"endTime" yaml:"endTime"`
	TimeTaken  time.Duration   `json:"timeTaken" yaml:"timeTaken"`
	Resources  ResourceMetrics `json:"resources" yaml:"resources"`
	ErrMessage string          `json:"error,omitempty" yaml:"error,omitempty"`
}
