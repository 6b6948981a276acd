package light

import "sync"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light that shines from its position toward
	// a target point with parallel rays. Used for large distant sources like the
	// sun. Affects all fragments uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypeAmbient represents a constant, directionless light added to every
	// fragment. It has no position and never casts shadows.
	LightTypeAmbient
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	lightType    LightType
	position     [3]float32
	target       [3]float32
	color        [3]float32
	intensity    float32
	enabled      bool
	castsShadows bool
	shadow       ShadowCamera
}

// Light defines the interface for a light source in the scene.
//
// Lights contribute to the final pixel color during the lit forward pass.
// Ambient lights are folded into a single ambient term; directional lights are
// evaluated per fragment and may cast shadows through their ShadowCamera.
//
// Lights are managed by the scene and marshaled into a GPU storage buffer
// each frame via the gpu_types helpers.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional or ambient)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for ambient lights.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Target returns the world-space point a directional light aims at.
	//
	// Returns:
	//   - [3]float32: target as (x, y, z)
	Target() [3]float32

	// Direction returns the normalized direction the light travels, from its
	// position toward its target. Returns a zero vector for ambient lights or when
	// position and target coincide.
	//
	// Returns:
	//   - [3]float32: direction as (x, y, z)
	Direction() [3]float32

	// Color returns the linear RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier.
	//
	// Returns:
	//   - float32: the intensity
	Intensity() float32

	// Enabled reports whether the light contributes to shading.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// CastsShadows reports whether a directional light renders a shadow map.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// ShadowCamera returns the orthographic shadow camera of a directional light.
	//
	// Returns:
	//   - ShadowCamera: the shadow frustum configuration
	ShadowCamera() ShadowCamera

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: the new position
	SetPosition(x, y, z float32)

	// SetTarget sets the world-space point a directional light aims at.
	//
	// Parameters:
	//   - x, y, z: the new target
	SetTarget(x, y, z float32)

	// SetColor sets the linear RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: the new color
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetCastsShadows toggles shadow casting for a directional light.
	//
	// Parameters:
	//   - castsShadows: true to cast shadows
	SetCastsShadows(castsShadows bool)

	// ShadowViewProj computes the light's shadow view-projection matrix from its
	// current position, target and shadow camera.
	//
	// Returns:
	//   - [16]float32: the column-major view-projection matrix
	ShadowViewProj() [16]float32
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the given type with the provided options applied.
// Defaults to white, intensity 1, enabled, positioned above the origin and aimed at it.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the configured light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.Mutex{},
		lightType: lightType,
		position:  [3]float32{0, 1, 0},
		color:     [3]float32{1, 1, 1},
		intensity: 1.0,
		enabled:   true,
		shadow:    DefaultShadowCamera(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.lightType == LightTypeAmbient {
		l.castsShadows = false
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Target() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

func (l *lightImpl) Direction() [3]float32 {
	if l.lightType == LightTypeAmbient {
		return [3]float32{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return normalize3(
		l.target[0]-l.position[0],
		l.target[1]-l.position[1],
		l.target[2]-l.position[2],
	)
}

func (l *lightImpl) Color() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.castsShadows
}

func (l *lightImpl) ShadowCamera() ShadowCamera {
	return l.shadow
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.mu.Lock()
	l.position = [3]float32{x, y, z}
	l.mu.Unlock()
}

func (l *lightImpl) SetTarget(x, y, z float32) {
	l.mu.Lock()
	l.target = [3]float32{x, y, z}
	l.mu.Unlock()
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.mu.Lock()
	l.color = [3]float32{r, g, b}
	l.mu.Unlock()
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	l.intensity = intensity
	l.mu.Unlock()
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	l.enabled = enabled
	l.mu.Unlock()
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	if l.lightType == LightTypeAmbient {
		return
	}
	l.mu.Lock()
	l.castsShadows = castsShadows
	l.mu.Unlock()
}

func (l *lightImpl) ShadowViewProj() [16]float32 {
	return l.shadow.ViewProj(l.Position(), l.Target())
}
