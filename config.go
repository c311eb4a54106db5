package glow

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned (wrapped) by BloomConfig.Validate.
var ErrInvalidConfig = errors.New("glow: invalid bloom config")

// DefaultBloomStrength is the weight applied to the blurred bloom image when
// it is added onto the base image.
const DefaultBloomStrength = 0.5

// DefaultBlurRadius is the blur radius in pixels used when none is configured.
const DefaultBlurRadius = 8

// MaxBlurRadius bounds the separable blur kernel.
const MaxBlurRadius = 32

// BlurKind selects the filter applied to the bloom target.
type BlurKind uint8

const (
	BlurGaussian BlurKind = iota // separable Gaussian, sigma = radius/2
	BlurBox                      // separable box (uniform weights)
	BlurKawase                   // iterative down/up sampling
)

var blurKindNames = [...]string{"gaussian", "box", "kawase"}

func (k BlurKind) String() string {
	if int(k) < len(blurKindNames) {
		return blurKindNames[k]
	}
	return fmt.Sprintf("BlurKind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k BlurKind) MarshalText() ([]byte, error) {
	if int(k) >= len(blurKindNames) {
		return nil, fmt.Errorf("unknown blur kind %d", k)
	}
	return []byte(blurKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *BlurKind) UnmarshalText(b []byte) error {
	for i, name := range blurKindNames {
		if string(b) == name {
			*k = BlurKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown blur kind %q", b)
}

// MaskMode selects how non-bloom objects are treated during the bloom pass.
type MaskMode uint8

const (
	// MaskHide hides every object that is not a bloom source.
	MaskHide MaskMode = iota
	// MaskDarken draws non-bloom objects in opaque black so they occlude
	// glow sources behind them.
	MaskDarken
)

var maskModeNames = [...]string{"hide", "darken"}

func (m MaskMode) String() string {
	if int(m) < len(maskModeNames) {
		return maskModeNames[m]
	}
	return fmt.Sprintf("MaskMode(%d)", m)
}

// MarshalText implements encoding.TextMarshaler.
func (m MaskMode) MarshalText() ([]byte, error) {
	if int(m) >= len(maskModeNames) {
		return nil, fmt.Errorf("unknown mask mode %d", m)
	}
	return []byte(maskModeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MaskMode) UnmarshalText(b []byte) error {
	for i, name := range maskModeNames {
		if string(b) == name {
			*m = MaskMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown mask mode %q", b)
}

// BloomConfig holds the tunable parameters of the bloom pipeline.
type BloomConfig struct {
	// Strength is the weight of the bloom image in the composite
	// (final = base + Strength*bloom). It is compiled into the composite
	// program, not passed as a uniform.
	Strength float64 `json:"strength"`
	// Blur selects the blur filter.
	Blur BlurKind `json:"blur"`
	// BlurRadius is the blur radius in pixels, in [0, MaxBlurRadius].
	BlurRadius int `json:"blurRadius"`
	// Mask selects how non-bloom objects are treated in the bloom pass.
	Mask MaskMode `json:"mask"`
	// ClearColor fills the base target before the full-scene pass.
	// The bloom target is always cleared to transparent black.
	ClearColor Color `json:"clearColor"`
}

// DefaultBloomConfig returns the default configuration: strength 0.5,
// Gaussian blur of radius 8, non-bloom objects hidden, black background.
func DefaultBloomConfig() BloomConfig {
	return BloomConfig{
		Strength:   DefaultBloomStrength,
		Blur:       BlurGaussian,
		BlurRadius: DefaultBlurRadius,
		Mask:       MaskHide,
		ClearColor: ColorBlack,
	}
}

// Validate reports whether the configuration is usable.
func (c BloomConfig) Validate() error {
	if math.IsNaN(c.Strength) || math.IsInf(c.Strength, 0) {
		return fmt.Errorf("%w: strength %v is not finite", ErrInvalidConfig, c.Strength)
	}
	if c.Strength < 0 {
		return fmt.Errorf("%w: strength %v is negative", ErrInvalidConfig, c.Strength)
	}
	if c.BlurRadius < 0 || c.BlurRadius > MaxBlurRadius {
		return fmt.Errorf("%w: blur radius %d outside [0, %d]", ErrInvalidConfig, c.BlurRadius, MaxBlurRadius)
	}
	if int(c.Blur) >= len(blurKindNames) {
		return fmt.Errorf("%w: unknown blur kind %d", ErrInvalidConfig, c.Blur)
	}
	if int(c.Mask) >= len(maskModeNames) {
		return fmt.Errorf("%w: unknown mask mode %d", ErrInvalidConfig, c.Mask)
	}
	return nil
}

// LoadBloomConfig parses a JSON document into a BloomConfig. Fields missing
// from the document keep their DefaultBloomConfig values.
func LoadBloomConfig(jsonData []byte) (BloomConfig, error) {
	cfg := DefaultBloomConfig()
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return BloomConfig{}, fmt.Errorf("parse bloom config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return BloomConfig{}, err
	}
	return cfg, nil
}
