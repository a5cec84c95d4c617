// Package whisper tracks the in-memory state of the transcription runtime:
// which model files are known, which one is loaded, and the active session.
package whisper

import "sync"

// ModelState describes one model known to the runtime.
type ModelState struct {
	Name   string
	Path   string
	Loaded bool
}

// Manager is the shared runtime manager. All access goes through an internal
// lock; ClearAll takes it exclusively so a concurrent transcription session
// can never observe a half-cleared manager.
type Manager struct {
	mu            sync.RWMutex
	models        map[string]ModelState
	activeModel   string
	activeSession string
}

func NewManager() *Manager {
	return &Manager{models: make(map[string]ModelState)}
}

// Register makes a model known to the runtime.
func (m *Manager) Register(state ModelState) {
	m.mu.Lock()
	m.models[state.Name] = state
	m.mu.Unlock()
}

// MarkLoaded flags a registered model as the loaded one.
func (m *Manager) MarkLoaded(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.models[name]
	if !ok {
		return false
	}
	state.Loaded = true
	m.models[name] = state
	m.activeModel = name
	return true
}

// BeginSession records the active transcription session ID.
func (m *Manager) BeginSession(id string) {
	m.mu.Lock()
	m.activeSession = id
	m.mu.Unlock()
}

// Active returns the loaded model name and the active session ID.
func (m *Manager) Active() (model, session string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeModel, m.activeSession
}

// Models returns a snapshot of the known models.
func (m *Manager) Models() []ModelState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ModelState, 0, len(m.models))
	for _, state := range m.models {
		out = append(out, state)
	}
	return out
}

// ClearAll discards all model and session state under the write lock.
// It has no error path: completion is the only outcome.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	m.models = make(map[string]ModelState)
	m.activeModel = ""
	m.activeSession = ""
	m.mu.Unlock()
}
