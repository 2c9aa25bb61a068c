package config

// Config holds the command-line settings of a batch run.
type Config struct {
	ConfigDir string
	LogLevel  string

	Sessions      int
	MaterialSteps int
	MaterialDelta float64

	// Seed drives camera sampling when HasSeed is set; otherwise sampling is seeded from entropy.
	Seed    uint64
	HasSeed bool

	Parallel int
	Resume   bool
	StampQR  bool
}

// Defaults used by the batch driver.
const (
	DefaultSessions      = 1
	DefaultMaterialSteps = 10
	DefaultMaterialDelta = 0.1
)

// PathConfig holds the command-line settings of a single spiral walk.
type PathConfig struct {
	ConfigFile     string
	LogLevel       string
	Scale          float64
	Steps          int
	DegreesPerStep float64
	Specular       float64
	ExportPath     string
	ReplayPath     string
	VideoPath      string
	FPS            int
	StampQR        bool
}

// Defaults used by the spiral walk.
const (
	DefaultScale          = 1.5
	DefaultSteps          = 5
	DefaultDegreesPerStep = 0.5
	DefaultSpecular       = 0.3
	DefaultFPS            = 30
)
