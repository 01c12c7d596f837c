package navmesh

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultClearanceRadius половина ширины агента
	DefaultClearanceRadius = 0.3
	// DefaultAgentHeight высота, которую агент должен иметь свободной над полом
	DefaultAgentHeight = 1.8
)

// ErrInvalidSettings недопустимые параметры построения
var ErrInvalidSettings = errors.New("invalid navmesh settings")

// Settings параметры агента, под которого строится сетка
type Settings struct {
	ClearanceRadius float64
	AgentHeight     float64
}

// DefaultSettings возвращает параметры по умолчанию
func DefaultSettings() Settings {
	return Settings{
		ClearanceRadius: DefaultClearanceRadius,
		AgentHeight:     DefaultAgentHeight,
	}
}

// Validate проверяет параметры
func (s Settings) Validate() error {
	if math.IsNaN(s.ClearanceRadius) || math.IsInf(s.ClearanceRadius, 0) || s.ClearanceRadius < 0 {
		return fmt.Errorf("%w: clearance radius %v", ErrInvalidSettings, s.ClearanceRadius)
	}
	if math.IsNaN(s.AgentHeight) || math.IsInf(s.AgentHeight, 0) || s.AgentHeight <= 0 {
		return fmt.Errorf("%w: agent height %v", ErrInvalidSettings, s.AgentHeight)
	}
	return nil
}
