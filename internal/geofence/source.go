package geofence

import (
	"context"
	"math/rand"
	"sync"
)

// PositionSource выдает текущую позицию туриста на каждом шаге.
// Случайное блуждание и реальный GPS взаимозаменяемы.
type PositionSource interface {
	Next(ctx context.Context) (Point, error)
}

// MotionState - состояние автомата симуляции
type MotionState string

const (
	StateMoving MotionState = "MOVING"
	StateStatic MotionState = "STATIC"
)

const (
	DefaultMoveTicks   = 30
	DefaultStaticTicks = 10
	DefaultStepDegrees = 0.0002
)

// RandomWalk имитирует перемещение туриста: MoveTicks шагов случайного смещения,
// затем StaticTicks шагов на месте, после чего вызывается OnInactivity и движение возобновляется.
type RandomWalk struct {
	MoveTicks   int
	StaticTicks int
	StepDegrees float64
	// OnInactivity - рекомендательный сигнал о бездействии, обработка на стороне вызывающего
	OnInactivity func()

	mu    sync.Mutex
	pos   Point
	state MotionState
	ticks int
	rng   *rand.Rand
}

// NewRandomWalk создает симуляцию с параметрами по умолчанию
func NewRandomWalk(start Point, seed int64) *RandomWalk {
	return &RandomWalk{
		MoveTicks:   DefaultMoveTicks,
		StaticTicks: DefaultStaticTicks,
		StepDegrees: DefaultStepDegrees,
		pos:         start,
		state:       StateMoving,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Reset переносит симуляцию в новую точку и начинает цикл заново
func (w *RandomWalk) Reset(start Point) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pos = start
	w.state = StateMoving
	w.ticks = 0
}

// State возвращает текущее состояние автомата
func (w *RandomWalk) State() MotionState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Next продвигает автомат на один шаг
func (w *RandomWalk) Next(_ context.Context) (Point, error) {
	w.mu.Lock()
	w.ticks++
	inactive := false

	switch w.state {
	case StateMoving:
		w.pos.Lat += (w.rng.Float64() - 0.5) * w.StepDegrees
		w.pos.Lng += (w.rng.Float64() - 0.5) * w.StepDegrees
		if w.ticks >= w.MoveTicks {
			w.state = StateStatic
			w.ticks = 0
		}
	case StateStatic:
		if w.ticks >= w.StaticTicks {
			inactive = true
			w.state = StateMoving
			w.ticks = 0
		}
	}
	pos := w.pos
	cb := w.OnInactivity
	w.mu.Unlock()

	if inactive && cb != nil {
		cb()
	}
	return pos, nil
}
