// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats provides a snapshot of time and memory allocation at a given point,
// against which later measurements are taken.  Intermediate laps can be marked
// so that the cost of individual stages is reported alongside the total.
type PerfStats struct {
	// Starting time
	startTime time.Time
	// Starting total memory allocation
	startMem uint64
	// Starting number of gc events
	startGc uint32
	// Laps marked so far (in order)
	laps []Lap
}

// Lap records the time taken by a named stage.
type Lap struct {
	Name     string
	Duration time.Duration
}

// NewPerfStats creates a new snapshot of the current time and memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{time.Now(), m.TotalAlloc, m.NumGC, nil}
}

// Elapsed returns the time since the snapshot was taken.
func (p *PerfStats) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// Mark the end of a named stage, which began at the end of the previous stage
// (or when the snapshot was taken).
func (p *PerfStats) Mark(name string) {
	var (
		elapsed = p.Elapsed()
		prior   time.Duration
	)
	//
	for _, lap := range p.laps {
		prior += lap.Duration
	}
	//
	p.laps = append(p.laps, Lap{name, elapsed - prior})
}

// Laps returns the stages marked so far.
func (p *PerfStats) Laps() []Lap {
	return p.laps
}

// Log the difference between the state now and when the snapshot was taken, at
// debug level.  Each marked stage is reported as a separate field.
func (p *PerfStats) Log(logger log.FieldLogger, prefix string) {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	fields := log.Fields{
		"alloc_kb": (m.TotalAlloc - p.startMem) / 1024,
		"gcs":      m.NumGC - p.startGc,
	}
	//
	for _, lap := range p.laps {
		fields[lap.Name] = lap.Duration.String()
	}
	//
	logger.WithFields(fields).Debugf("%s took %0.4fs", prefix, p.Elapsed().Seconds())
}
