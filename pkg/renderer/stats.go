package renderer

import "time"

// RenderStats contains statistics about the last rendered pass
type RenderStats struct {
	Pass         int // Samples per pixel after the pass
	Width        int // Render resolution
	Height       int
	PassDuration time.Duration // Wall time of the pass
	Workers      int           // Parallel workers used
}

// PathsPerSecond returns the pass throughput
func (rs RenderStats) PathsPerSecond() float64 {
	if rs.PassDuration <= 0 {
		return 0
	}
	return float64(rs.Width*rs.Height) / rs.PassDuration.Seconds()
}
