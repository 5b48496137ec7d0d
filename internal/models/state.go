package models

import (
	"sync"
	"time"
)

// BuildState is a snapshot of the build slot.
type BuildState struct {
	IsActive  bool
	BuildID   string
	Script    string
	StartTime time.Time
	Last      *BuildResult
}

// BuildStateRepository guards the single build slot shared by the
// controller (UI thread) and the background build goroutine.
type BuildStateRepository struct {
	mu    sync.RWMutex
	state BuildState
}

func NewBuildStateRepository() *BuildStateRepository {
	return &BuildStateRepository{}
}

// TryStart claims the slot. It returns false when a build is already active.
func (r *BuildStateRepository) TryStart(buildID, script string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.IsActive {
		return false
	}
	r.state.IsActive = true
	r.state.BuildID = buildID
	r.state.Script = script
	r.state.StartTime = time.Now()
	return true
}

// Complete releases the slot and records the result, which may be nil
// when the build never produced one.
func (r *BuildStateRepository) Complete(result *BuildResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.IsActive = false
	r.state.Last = result
}

func (r *BuildStateRepository) IsBuilding() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.IsActive
}

// GetState returns a copy of the current state.
func (r *BuildStateRepository) GetState() BuildState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}
