package parameter

// Genetic Algorithm - Engine Configuration
const (
	// GAPopulationSize is the number of palettes in each generation
	GAPopulationSize = 200

	// GAEliteCount is preserved best performers per generation
	GAEliteCount = 2

	// GAMutationRate is probability of mutating a child (0.0-1.0)
	GAMutationRate = 0.8

	// GATournamentSize for selection pressure
	GATournamentSize = 4

	// GAParallelism bounds concurrent fitness evaluations
	GAParallelism = 4

	// GAMutationSigma is the Gaussian spread per axis at heat 1.0
	GAMutationSigma = 0.02
)

// Run driver
const (
	// RunGenerations is the default generation budget per run
	RunGenerations = 1000

	// RunRepeats is the default number of independent runs
	RunRepeats = 1

	// RunHeatFloor is the lowest heat the linear schedule anneals to
	RunHeatFloor = 0.0

	// RunReportDivisions splits a run into this many progress reports
	RunReportDivisions = 100

	// RunInboxSize is the capacity of the live configuration inbox
	RunInboxSize = 16
)

// Palette problem
const (
	// PaletteFreeColors is the default number of evolved colors
	PaletteFreeColors = 6
)
