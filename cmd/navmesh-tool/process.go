package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// processStats снимок ресурсов процесса после построения
type processStats struct {
	Elapsed    time.Duration
	RSSMB      float64
	CPUPercent float64
	HeapMB     float64
	NumGC      uint32
}

// readProcessStats собирает статистику текущего процесса
func readProcessStats(start time.Time) (processStats, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := processStats{
		Elapsed: time.Since(start),
		HeapMB:  float64(m.HeapAlloc) / 1024 / 1024,
		NumGC:   m.NumGC,
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats, err
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		return stats, err
	}
	stats.RSSMB = float64(mem.RSS) / 1024 / 1024

	// Процент CPU за всё время жизни процесса
	if cpu, err := proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	return stats, nil
}

func (s processStats) String() string {
	return fmt.Sprintf("время=%s rss=%.1fMB heap=%.1fMB cpu=%.1f%% gc=%d",
		s.Elapsed.Round(time.Millisecond), s.RSSMB, s.HeapMB, s.CPUPercent, s.NumGC)
}
