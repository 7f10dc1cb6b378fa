package pixel

import (
	"fmt"
	"math"
)

// Vector is a color expressed as an ordered tuple of named scalar channels.
// The zero Vector is an RGB black.
type Vector struct {
	model Model
	c     [MaxChannels]float64
}

// Zero returns the all-zero vector of the given model.
func Zero(m Model) Vector {
	return Vector{model: m}
}

// New builds a vector from channel values given in the model's channel order.
func New(m Model, values ...float64) (Vector, error) {
	if !m.Valid() {
		return Vector{}, fmt.Errorf("%w: %d", ErrUnknownModel, int(m))
	}
	if len(values) != m.Len() {
		return Vector{}, fmt.Errorf("%s needs %d channel values, got %d", m, m.Len(), len(values))
	}
	v := Vector{model: m}
	copy(v.c[:], values)
	return v, nil
}

// Model returns the color model of the vector.
func (v Vector) Model() Model { return v.model }

// Len returns the number of channels.
func (v Vector) Len() int { return v.model.Len() }

// At returns the i-th channel in model order.
func (v Vector) At(i int) float64 { return v.c[i] }

// Values returns a copy of the channels in model order.
func (v Vector) Values() []float64 {
	out := make([]float64, v.Len())
	copy(out, v.c[:])
	return out
}

// Channel returns the value of the named channel.
func (v Vector) Channel(name string) (float64, error) {
	i, err := v.model.channelIndex(name)
	if err != nil {
		return 0, err
	}
	return v.c[i], nil
}

// WithChannel returns a copy of v with the named channel set to x.
func (v Vector) WithChannel(name string, x float64) (Vector, error) {
	i, err := v.model.channelIndex(name)
	if err != nil {
		return v, err
	}
	v.c[i] = x
	return v, nil
}

// Add returns v + o channel by channel.
func (v Vector) Add(o Vector) (Vector, error) {
	if v.model != o.model {
		return v, fmt.Errorf("%w: %s + %s", ErrModelMismatch, v.model, o.model)
	}
	for i := 0; i < v.Len(); i++ {
		v.c[i] += o.c[i]
	}
	return v, nil
}

// Sub returns v - o channel by channel.
func (v Vector) Sub(o Vector) (Vector, error) {
	if v.model != o.model {
		return v, fmt.Errorf("%w: %s - %s", ErrModelMismatch, v.model, o.model)
	}
	for i := 0; i < v.Len(); i++ {
		v.c[i] -= o.c[i]
	}
	return v, nil
}

// Scale returns k * v.
func (v Vector) Scale(k float64) Vector {
	for i := 0; i < v.Len(); i++ {
		v.c[i] *= k
	}
	return v
}

// Norm returns the Euclidean length of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for i := 0; i < v.Len(); i++ {
		sum += v.c[i] * v.c[i]
	}
	return math.Sqrt(sum)
}

func (v Vector) String() string {
	s := v.model.String() + "("
	for i, name := range v.model.Channels() {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%.4g", name, v.c[i])
	}
	return s + ")"
}
