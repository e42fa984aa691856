package usecase

import (
	"sort"
	"sync"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/pkg/errors"
)

// Session - состояние одного поезда и мьютекс, сериализующий изменения.
// Движок не синхронизирован, поэтому любое обращение к state идёт через Read или Mutate.
type Session struct {
	mu     sync.RWMutex
	state  *domain.TrainState
	spec   engine.TrainSpec
	source string
	query  repository.RosterQuery
}

func NewSession(state *domain.TrainState, spec engine.TrainSpec, source string, query repository.RosterQuery) *Session {
	return &Session{
		state:  state,
		spec:   spec,
		source: source,
		query:  query,
	}
}

// Read - доступ только на чтение; fn не должна изменять состояние
func (s *Session) Read(fn func(*domain.TrainState) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

// Mutate - эксклюзивный доступ на время fn
func (s *Session) Mutate(fn func(*domain.TrainState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func (s *Session) Spec() engine.TrainSpec {
	return s.spec
}

func (s *Session) Source() (string, repository.RosterQuery) {
	return s.source, s.query
}

// Registry - активные сессии по номеру поезда
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Get(trainNo string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[trainNo]
	if !ok {
		return nil, errors.ErrTrainNotFound.WithDetails(map[string]interface{}{"train_no": trainNo})
	}
	return s, nil
}

// Add регистрирует сессию; повторная регистрация того же поезда - ошибка
func (r *Registry) Add(trainNo string, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[trainNo]; ok {
		return errors.ErrTrainAlreadyExists.WithDetails(map[string]interface{}{"train_no": trainNo})
	}
	r.sessions[trainNo] = s
	return nil
}

// Replace подменяет сессию (сброс поезда)
func (r *Registry) Replace(trainNo string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[trainNo] = s
}

func (r *Registry) Remove(trainNo string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[trainNo]; !ok {
		return false
	}
	delete(r.sessions, trainNo)
	return true
}

// TrainNumbers - номера активных поездов по возрастанию
func (r *Registry) TrainNumbers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.sessions))
	for no := range r.sessions {
		out = append(out, no)
	}
	sort.Strings(out)
	return out
}
