package pixel

import (
	"errors"
	"fmt"
	"strings"
)

// Model identifies the channel layout of a Vector.
type Model int

const (
	RGB Model = iota
	HSL
	CMY
	CMYK
)

// MaxChannels is the largest channel count of any supported model.
const MaxChannels = 4

var (
	// ErrUnknownModel is returned when a model name or tag is not supported.
	ErrUnknownModel = errors.New("unknown color model")

	// ErrUnknownChannel is returned when a channel name is not part of a model.
	ErrUnknownChannel = errors.New("unknown color component name")

	// ErrModelMismatch is returned when vectors of different models are combined.
	ErrModelMismatch = errors.New("color model mismatch")
)

var modelNames = [...]string{
	RGB:  "RGB",
	HSL:  "HSL",
	CMY:  "CMY",
	CMYK: "CMYK",
}

// channelNames is shared by every vector of a model and must not be modified.
var channelNames = [...][]string{
	RGB:  {"R", "G", "B"},
	HSL:  {"H", "S", "L"},
	CMY:  {"C", "M", "Y"},
	CMYK: {"C", "M", "Y", "K"},
}

// Models lists every supported model in declaration order.
func Models() []Model {
	return []Model{RGB, HSL, CMY, CMYK}
}

// ParseModel converts a case-insensitive model name such as "rgb" or "CMYK".
func ParseModel(s string) (Model, error) {
	for i, name := range modelNames {
		if strings.EqualFold(s, name) {
			return Model(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

// Valid reports whether m is one of the supported models.
func (m Model) Valid() bool {
	return m >= RGB && m <= CMYK
}

func (m Model) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Model(%d)", int(m))
	}
	return modelNames[m]
}

// Channels returns the ordered channel names of the model. The returned slice
// is shared and must not be modified.
func (m Model) Channels() []string {
	if !m.Valid() {
		return nil
	}
	return channelNames[m]
}

// Len returns the number of channels in the model.
func (m Model) Len() int {
	return len(m.Channels())
}

// Max returns the upper bound of every channel of the model. The lower bound
// is always 0.
func (m Model) Max() float64 {
	if m == RGB {
		return 255
	}
	return 1
}

// channelIndex resolves a channel name to its position in the model.
func (m Model) channelIndex(name string) (int, error) {
	for i, n := range m.Channels() {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w %q for %s", ErrUnknownChannel, name, m)
}
