package courtside

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("courtside: invalid config")

// Config describes a court and the bodies that play on it. Lengths are in
// court units, the up-axis is +z and the hoop sits at the +y end.
type Config struct {
	Gravity      mgl64.Vec3    `yaml:"gravity"`
	Step         time.Duration `yaml:"step"`
	MaxFrameTime time.Duration `yaml:"max_frame_time"`
	Workers      int           `yaml:"workers"`

	Court   CourtConfig   `yaml:"court"`
	Hoop    HoopConfig    `yaml:"hoop"`
	Ball    BallConfig    `yaml:"ball"`
	Player  PlayerConfig  `yaml:"player"`
	Blocker BlockerConfig `yaml:"blocker"`
}

type SurfaceConfig struct {
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
}

type CourtConfig struct {
	HalfWidth  float64 `yaml:"half_width"`
	HalfLength float64 `yaml:"half_length"`
	WallHeight float64 `yaml:"wall_height"`
	// DespawnMargin is how far outside the walls or below the floor a ball
	// may travel before it is removed.
	DespawnMargin float64 `yaml:"despawn_margin"`

	Floor SurfaceConfig `yaml:"floor"`
	Walls SurfaceConfig `yaml:"walls"`
}

type HoopConfig struct {
	RimCenter  mgl64.Vec3 `yaml:"rim_center"`
	RimRadius  float64    `yaml:"rim_radius"`
	TubeRadius float64    `yaml:"tube_radius"`
	NetDepth   float64    `yaml:"net_depth"`

	BackboardCenter      mgl64.Vec3 `yaml:"backboard_center"`
	BackboardHalfExtents mgl64.Vec3 `yaml:"backboard_half_extents"`

	ArmStart  mgl64.Vec3 `yaml:"arm_start"`
	ArmEnd    mgl64.Vec3 `yaml:"arm_end"`
	ArmRadius float64    `yaml:"arm_radius"`

	PoleCenter mgl64.Vec2 `yaml:"pole_center"`
	PoleRadius float64    `yaml:"pole_radius"`
	PoleHeight float64    `yaml:"pole_height"`

	Surface SurfaceConfig `yaml:"surface"`
}

type BallConfig struct {
	Radius      float64 `yaml:"radius"`
	Mass        float64 `yaml:"mass"`
	Restitution float64 `yaml:"restitution"`
	Drag        float64 `yaml:"drag"`
	AngularDrag float64 `yaml:"angular_drag"`
}

type PlayerConfig struct {
	Radius      float64 `yaml:"radius"`
	HalfHeight  float64 `yaml:"half_height"`
	Mass        float64 `yaml:"mass"`
	Restitution float64 `yaml:"restitution"`
	// Reach is how far in front of the player a ball can be picked up.
	Reach float64 `yaml:"reach"`
}

type BlockerConfig struct {
	MinHalfExtents mgl64.Vec3    `yaml:"min_half_extents"`
	MaxHalfExtents mgl64.Vec3    `yaml:"max_half_extents"`
	Surface        SurfaceConfig `yaml:"surface"`
}

// DefaultConfig returns the court the game ships with.
func DefaultConfig() Config {
	return Config{
		Gravity:      mgl64.Vec3{0, 0, -24.5},
		Step:         5 * time.Millisecond,
		MaxFrameTime: 250 * time.Millisecond,
		Workers:      1,
		Court: CourtConfig{
			HalfWidth:     15,
			HalfLength:    28,
			WallHeight:    10,
			DespawnMargin: 10,
			Floor:         SurfaceConfig{Restitution: 1, Friction: 0.05},
			Walls:         SurfaceConfig{Restitution: 0.7, Friction: 0.1},
		},
		Hoop: HoopConfig{
			RimCenter:            mgl64.Vec3{0, 24, 6},
			RimRadius:            0.9,
			TubeRadius:           0.08,
			NetDepth:             1,
			BackboardCenter:      mgl64.Vec3{0, 25.2, 7},
			BackboardHalfExtents: mgl64.Vec3{1.8, 0.1, 1.1},
			ArmStart:             mgl64.Vec3{0, 25.3, 6.5},
			ArmEnd:               mgl64.Vec3{0, 27, 6.5},
			ArmRadius:            0.15,
			PoleCenter:           mgl64.Vec2{0, 27},
			PoleRadius:           0.3,
			PoleHeight:           6.65,
			Surface:              SurfaceConfig{Restitution: 0.6, Friction: 0.1},
		},
		Ball: BallConfig{
			Radius:      0.5,
			Mass:        1,
			Restitution: 0.9,
			Drag:        0.02,
			AngularDrag: 0.5,
		},
		Player: PlayerConfig{
			Radius:      0.6,
			HalfHeight:  1.2,
			Mass:        80,
			Restitution: 0.5,
			Reach:       2,
		},
		Blocker: BlockerConfig{
			MinHalfExtents: mgl64.Vec3{0.5, 0.5, 1},
			MaxHalfExtents: mgl64.Vec3{2, 2, 3},
			Surface:        SurfaceConfig{Restitution: 0.8, Friction: 0.1},
		},
	}
}

// LoadConfig reads a YAML document over DefaultConfig and validates the
// result. Unknown fields are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("courtside: decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func (s SurfaceConfig) validate(name string) error {
	if s.Restitution < 0 || s.Restitution > 1 {
		return invalid("%s restitution %v outside [0,1]", name, s.Restitution)
	}
	if s.Friction < 0 || s.Friction > 1 {
		return invalid("%s friction %v outside [0,1]", name, s.Friction)
	}
	return nil
}

// Validate reports the first problem found in cfg, wrapping ErrInvalidConfig.
func (cfg Config) Validate() error {
	switch {
	case cfg.Step <= 0:
		return invalid("step %v must be positive", cfg.Step)
	case cfg.MaxFrameTime < cfg.Step:
		return invalid("max frame time %v shorter than step %v", cfg.MaxFrameTime, cfg.Step)
	case cfg.Workers < 0:
		return invalid("workers %d must not be negative", cfg.Workers)
	case cfg.Court.HalfWidth <= 0 || cfg.Court.HalfLength <= 0 || cfg.Court.WallHeight <= 0:
		return invalid("court dimensions must be positive")
	case cfg.Court.DespawnMargin < 0:
		return invalid("despawn margin %v must not be negative", cfg.Court.DespawnMargin)
	case cfg.Hoop.RimRadius <= 0 || cfg.Hoop.TubeRadius <= 0 || cfg.Hoop.NetDepth <= 0:
		return invalid("rim dimensions must be positive")
	case cfg.Hoop.ArmRadius <= 0 || cfg.Hoop.PoleRadius <= 0 || cfg.Hoop.PoleHeight <= 0:
		return invalid("hoop support dimensions must be positive")
	case cfg.Ball.Radius <= 0 || cfg.Ball.Mass <= 0:
		return invalid("ball radius and mass must be positive")
	case cfg.Ball.Restitution < 0 || cfg.Ball.Restitution > 1:
		return invalid("ball restitution %v outside [0,1]", cfg.Ball.Restitution)
	case cfg.Ball.Drag < 0 || cfg.Ball.AngularDrag < 0:
		return invalid("ball drag must not be negative")
	case cfg.Player.Radius <= 0 || cfg.Player.HalfHeight < 0 || cfg.Player.Mass <= 0:
		return invalid("player radius and mass must be positive")
	case cfg.Player.Restitution < 0 || cfg.Player.Restitution > 1:
		return invalid("player restitution %v outside [0,1]", cfg.Player.Restitution)
	case cfg.Player.Reach < 0:
		return invalid("player reach %v must not be negative", cfg.Player.Reach)
	}

	for i := 0; i < 3; i++ {
		lo, hi := cfg.Blocker.MinHalfExtents[i], cfg.Blocker.MaxHalfExtents[i]
		if lo <= 0 || hi < lo {
			return invalid("blocker half extents [%v,%v] on axis %d", lo, hi, i)
		}
	}

	surfaces := []struct {
		name    string
		surface SurfaceConfig
	}{
		{"floor", cfg.Court.Floor},
		{"walls", cfg.Court.Walls},
		{"hoop", cfg.Hoop.Surface},
		{"blocker", cfg.Blocker.Surface},
	}
	for _, s := range surfaces {
		if err := s.surface.validate(s.name); err != nil {
			return err
		}
	}
	return nil
}
