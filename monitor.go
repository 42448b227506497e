package docview

import "sync"

// PressureLevel classifies memory usage relative to the configured ceiling.
type PressureLevel int

// Pressure levels reported by MemoryMonitor.
const (
	PressureNormal PressureLevel = iota
	PressureWarning
	PressureCritical
)

// String returns a human-readable level name.
func (l PressureLevel) String() string {
	switch l {
	case PressureWarning:
		return "warning"
	case PressureCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Default pressure thresholds as fractions of the ceiling.
const (
	DefaultWarningThreshold  = 0.7
	DefaultCriticalThreshold = 0.9
)

// MemoryMonitor tracks approximate byte usage of cached documents and
// reports pressure against a configured ceiling. A zero ceiling disables
// pressure reporting; usage accounting still works.
type MemoryMonitor struct {
	mu       sync.Mutex
	ceiling  int64
	warnAt   float64
	critAt   float64
	sizes    map[string]int64
	total    int64
	level    PressureLevel
	onChange func(PressureLevel)
}

// NewMemoryMonitor creates a monitor with the given byte ceiling and the
// default warning (70%) and critical (90%) thresholds.
func NewMemoryMonitor(ceilingBytes int64) *MemoryMonitor {
	return &MemoryMonitor{
		ceiling: ceilingBytes,
		warnAt:  DefaultWarningThreshold,
		critAt:  DefaultCriticalThreshold,
		sizes:   make(map[string]int64),
	}
}

// OnPressureChange registers fn to be called whenever the pressure level
// changes. The callback runs outside the monitor's lock and must not block.
func (m *MemoryMonitor) OnPressureChange(fn func(PressureLevel)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Record sets the tracked size for a document, replacing any previous size.
func (m *MemoryMonitor) Record(documentID string, bytes int64) {
	m.mu.Lock()
	m.total += bytes - m.sizes[documentID]
	m.sizes[documentID] = bytes
	m.notifyLocked()
}

// Release stops tracking a document's size.
func (m *MemoryMonitor) Release(documentID string) {
	m.mu.Lock()
	if prev, ok := m.sizes[documentID]; ok {
		m.total -= prev
		delete(m.sizes, documentID)
	}
	m.notifyLocked()
}

// Usage returns the current tracked byte total.
func (m *MemoryMonitor) Usage() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Pressure returns the current pressure level.
func (m *MemoryMonitor) Pressure() PressureLevel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levelLocked()
}

func (m *MemoryMonitor) levelLocked() PressureLevel {
	if m.ceiling <= 0 {
		return PressureNormal
	}
	ratio := float64(m.total) / float64(m.ceiling)
	switch {
	case ratio >= m.critAt:
		return PressureCritical
	case ratio >= m.warnAt:
		return PressureWarning
	default:
		return PressureNormal
	}
}

// notifyLocked recomputes the level and fires the callback on change.
// It releases the lock before invoking the callback.
func (m *MemoryMonitor) notifyLocked() {
	level := m.levelLocked()
	changed := level != m.level
	m.level = level
	fn := m.onChange
	m.mu.Unlock()

	if changed && fn != nil {
		fn(level)
	}
}
