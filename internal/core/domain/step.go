package domain

// StepKind identifies the operation a step performs.
type StepKind int

const (
	// StepUpgrade upgrades the packaging toolchain itself.
	StepUpgrade StepKind = iota
	// StepInstall installs application dependencies from the manifest.
	StepInstall
)

// String returns the human-readable name of the step kind.
func (k StepKind) String() string {
	switch k {
	case StepUpgrade:
		return "upgrade"
	case StepInstall:
		return "install"
	default:
		return "unknown"
	}
}

// Step is a single unit of the setup sequence.
type Step struct {
	// Kind selects the package manager operation.
	Kind StepKind
	// Title is announced before the step runs.
	Title string
	// Tools lists the packages an upgrade step brings up to date.
	// Ignored for install steps.
	Tools []string
	// ManifestPath is the dependency manifest an install step reads.
	// Ignored for upgrade steps. The file is opaque to pave; only the
	// package manager interprets it.
	ManifestPath string
}

// Plan is the ordered setup sequence for one profile.
// Steps execute strictly in slice order and the first failure aborts the run.
type Plan struct {
	Profile           string
	Interpreter       string
	Steps             []Step
	CompletionMessage string
}

// NewPlan builds the canonical two-step plan for a resolved profile:
// one toolchain upgrade followed by one dependency install.
func NewPlan(p Profile) *Plan {
	return &Plan{
		Profile:     p.Name,
		Interpreter: p.Interpreter,
		Steps: []Step{
			{
				Kind:  StepUpgrade,
				Title: p.UpgradeTitle,
				Tools: p.Tools,
			},
			{
				Kind:         StepInstall,
				Title:        p.InstallTitle,
				ManifestPath: p.Manifest,
			},
		},
		CompletionMessage: p.CompletionMessage,
	}
}

// InstallStep returns the plan's install step, if any.
func (p *Plan) InstallStep() (Step, bool) {
	for _, s := range p.Steps {
		if s.Kind == StepInstall {
			return s, true
		}
	}
	return Step{}, false
}

// StepNames returns the step titles in execution order.
func (p *Plan) StepNames() []string {
	names := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		names = append(names, s.Title)
	}
	return names
}
