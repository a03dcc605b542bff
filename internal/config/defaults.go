package config

// Collation modes.
const (
	ModeDisk    = "disk"
	ModeOptThin = "optthin"
)

// Component names accepted in collate.disabled.
const (
	ComponentPhotosphere = "photosphere"
	ComponentWall        = "wall"
	ComponentDisk        = "disk"
	ComponentScattered   = "scattered"
	ComponentDust        = "dust"
)

const (
	defaultModelDir  = "~/models"
	defaultOutputDir = "~/models/collated"
	defaultLogDir    = "~/.local/share/collator/logs"
	defaultLedger    = "~/.local/share/collator/ledger.db"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
	defaultWorkers   = 4
	maxWorkers       = 256
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ModelDir:   defaultModelDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			LedgerPath: defaultLedger,
		},
		Collate: Collate{
			Mode:     ModeDisk,
			Disabled: []string{ComponentScattered},
		},
		Components: Components{
			Photosphere: Layout{
				Pattern:          "Phot*{job}",
				WavelengthColumn: 1,
				FluxColumn:       2,
			},
			Wall: Layout{
				Pattern:          "fort17*{object}_{job}",
				HeaderLines:      9,
				WavelengthColumn: 1,
				FluxColumn:       2,
			},
			Disk: Layout{
				Pattern:          "angle*_{job}*",
				HeaderLines:      1,
				WavelengthColumn: 1,
				FluxColumn:       4,
				ExtinctionColumn: 5,
			},
			Scattered: Layout{
				Pattern:          "scatt*{object}_{job}*",
				HeaderLines:      1,
				WavelengthColumn: 1,
				FluxColumn:       2,
			},
			Dust: Layout{
				Pattern:          "fort16*{job}",
				WavelengthColumn: 1,
				FluxColumn:       3,
			},
			InnerRadius: Layout{
				Pattern: "rin*{object}_{job}",
			},
		},
		Batch: Batch{
			Workers: defaultWorkers,
			Lock:    true,
			Ledger:  true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			File:   true,
		},
	}
}
