package java

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Paths holds the fixed locations and command names the resolver probes.
// Every field can be overridden from the user config.
type Paths struct {
	// RedHatJavaHome is Oracle's '/usr/java/latest' symlink convention.
	RedHatJavaHome string `json:"redhat_java_home"`
	// AlternativesCommand is looked up on PATH when AlternativesCommandPath is not executable.
	AlternativesCommand     string `json:"alternatives_command"`
	AlternativesCommandPath string `json:"alternatives_command_path"`
	// RedHatAlternativesPath is the RedHat alias of update-alternatives.
	RedHatAlternativesPath string `json:"redhat_alternatives_path"`
	OSXJavaHomeUtility     string `json:"osx_java_home_utility"`
}

// DefaultPaths returns the conventional locations
func DefaultPaths() Paths {
	return Paths{
		RedHatJavaHome:          "/usr/java/latest",
		AlternativesCommand:     "update-alternatives",
		AlternativesCommandPath: "/usr/sbin/update-alternatives",
		RedHatAlternativesPath:  "/usr/sbin/alternatives",
		OSXJavaHomeUtility:      "/usr/libexec/java_home",
	}
}

// Merge returns p with every empty field filled from DefaultPaths
func (p Paths) Merge() Paths {
	def := DefaultPaths()
	if strings.TrimSpace(p.RedHatJavaHome) == "" {
		p.RedHatJavaHome = def.RedHatJavaHome
	}
	if strings.TrimSpace(p.AlternativesCommand) == "" {
		p.AlternativesCommand = def.AlternativesCommand
	}
	if strings.TrimSpace(p.AlternativesCommandPath) == "" {
		p.AlternativesCommandPath = def.AlternativesCommandPath
	}
	if strings.TrimSpace(p.RedHatAlternativesPath) == "" {
		p.RedHatAlternativesPath = def.RedHatAlternativesPath
	}
	if strings.TrimSpace(p.OSXJavaHomeUtility) == "" {
		p.OSXJavaHomeUtility = def.OSXJavaHomeUtility
	}
	return p
}

var alternativesLinkRe = regexp.MustCompile(`\s*link currently points to(.*)`)

// Resolver finds the probable JAVA_HOME directory for an OS family
type Resolver struct {
	paths         Paths
	probe         FileProbe
	runner        CommandRunner
	versionRunner CommandRunner
	env           Environment
	logger        zerolog.Logger
}

// Option customises a Resolver
type Option func(*Resolver)

// WithProbe replaces the filesystem probe
func WithProbe(p FileProbe) Option {
	return func(r *Resolver) { r.probe = p }
}

// WithRunner replaces the command runner
func WithRunner(c CommandRunner) Option {
	return func(r *Resolver) { r.runner = c }
}

// WithVersionRunner replaces the runner used for 'java -version'
func WithVersionRunner(c CommandRunner) Option {
	return func(r *Resolver) { r.versionRunner = c }
}

// WithEnvironment replaces the environment reader
func WithEnvironment(e Environment) Option {
	return func(r *Resolver) { r.env = e }
}

// WithLogger sets the logger that records each fallback step
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a resolver that probes the real system
func NewResolver(paths Paths, opts ...Option) *Resolver {
	r := &Resolver{
		paths:         paths.Merge(),
		probe:         OSProbe{},
		runner:        ExecRunner{},
		versionRunner: CombinedRunner{},
		env:           OSEnvironment{},
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Paths returns the effective locations in use
func (r *Resolver) Paths() Paths {
	return r.paths
}

// Resolve returns the first valid Java home for family, or "" if none is found
func (r *Resolver) Resolve(family OSFamily) string {
	return r.Detect(family).Home
}

// Detect runs the fallback chain for family and records which step produced the result
func (r *Resolver) Detect(family OSFamily) Installation {
	var steps []func() Installation

	switch family {
	case RedHat:
		steps = []func() Installation{r.fromRedHatDefault, r.fromAlternatives, r.fromEnvironment}
	case Debian:
		steps = []func() Installation{r.fromAlternatives, r.fromEnvironment}
	case Darwin:
		steps = []func() Installation{r.fromOSXUtility, r.fromEnvironment}
	default:
		// Windows is not supported; unknown families have nothing to probe.
		r.logger.Debug().Str("os_family", string(family)).Msg("no java home heuristics for os family")
		return Installation{}
	}

	for _, step := range steps {
		if inst := step(); inst.Home != "" {
			r.logger.Debug().
				Str("os_family", string(family)).
				Str("source", string(inst.Source)).
				Str("java_home", inst.Home).
				Msg("resolved java home")
			return inst
		}
	}

	r.logger.Debug().Str("os_family", string(family)).Msg("no java home found")
	return Installation{}
}

// IsValidJavaHome checks that candidate contains an executable bin/java
func (r *Resolver) IsValidJavaHome(candidate string) bool {
	if strings.TrimSpace(candidate) == "" {
		return false
	}
	return r.probe.Executable(javaExecutable(candidate))
}

func (r *Resolver) fromRedHatDefault() Installation {
	if r.IsValidJavaHome(r.paths.RedHatJavaHome) {
		return Installation{Home: r.paths.RedHatJavaHome, Source: SourceRedHatDefault}
	}
	r.logger.Debug().Str("path", r.paths.RedHatJavaHome).Msg("redhat default java home not usable")
	return Installation{}
}

func (r *Resolver) fromAlternatives() Installation {
	candidate := r.AlternativesCandidate()
	if candidate == "" {
		return Installation{}
	}
	if !r.IsValidJavaHome(candidate) {
		r.logger.Debug().Str("candidate", candidate).Msg("alternatives candidate has no executable bin/java")
		return Installation{}
	}
	return Installation{Home: candidate, Source: SourceAlternatives}
}

func (r *Resolver) fromEnvironment() Installation {
	value := r.env.Getenv("JAVA_HOME")
	if strings.TrimSpace(value) == "" {
		r.logger.Debug().Msg("JAVA_HOME is not set")
		return Installation{}
	}
	if !r.IsValidJavaHome(value) {
		r.logger.Debug().Str("candidate", value).Msg("JAVA_HOME has no executable bin/java")
		return Installation{}
	}
	return Installation{Home: value, Source: SourceEnvironment}
}

func (r *Resolver) fromOSXUtility() Installation {
	candidate := r.OSXCandidate()
	if candidate == "" {
		return Installation{}
	}
	if !r.IsValidJavaHome(candidate) {
		r.logger.Debug().Str("candidate", candidate).Msg("java_home utility candidate has no executable bin/java")
		return Installation{}
	}
	return Installation{Home: candidate, Source: SourceOSXUtility}
}

// OSXCandidate returns the trimmed output of the OS X java_home utility, unvalidated
func (r *Resolver) OSXCandidate() string {
	utility := r.paths.OSXJavaHomeUtility
	if !r.probe.Executable(utility) {
		r.logger.Debug().Str("utility", utility).Msg("java_home utility not executable")
		return ""
	}
	out, err := r.runner.Output(utility)
	if err != nil {
		r.logger.Debug().Err(err).Str("utility", utility).Msg("java_home utility failed")
		return ""
	}
	return strings.TrimSpace(out)
}

// AlternativesCandidate queries the alternatives system for the current
// java link and returns the directory above bin/java, unvalidated
func (r *Resolver) AlternativesCandidate() string {
	cmd := r.AlternativesCommandPath()
	if cmd == "" {
		r.logger.Debug().Str("command", r.paths.AlternativesCommand).Msg("alternatives command not found")
		return ""
	}
	out, err := r.runner.Output(cmd, "--display", "java")
	if err != nil {
		r.logger.Debug().Err(err).Str("command", cmd).Msg("alternatives query failed")
		return ""
	}
	return ParseAlternativesOutput(out)
}

// AlternativesCommandPath returns the configured alternatives command if it
// is executable, otherwise the first match on PATH, otherwise ""
func (r *Resolver) AlternativesCommandPath() string {
	if r.probe.Executable(r.paths.AlternativesCommandPath) {
		return r.paths.AlternativesCommandPath
	}
	return r.Which(r.paths.AlternativesCommand)
}

// Which returns the first executable named command on PATH, trying each PATHEXT extension
func (r *Resolver) Which(command string) string {
	exts := []string{""}
	if pathext := r.env.Getenv("PATHEXT"); pathext != "" {
		exts = strings.Split(pathext, ";")
	}
	for _, dir := range filepath.SplitList(r.env.Getenv("PATH")) {
		for _, ext := range exts {
			candidate := filepath.Join(dir, command+ext)
			if r.probe.Executable(candidate) {
				return candidate
			}
		}
	}
	return ""
}

// ParseAlternativesOutput extracts the java home from 'alternatives --display java'
// output, e.g. "link currently points to /opt/jdk8/bin/java" yields "/opt/jdk8"
func ParseAlternativesOutput(output string) string {
	m := alternativesLinkRe.FindStringSubmatch(output)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.Replace(m[1], "/bin/java", "", 1))
}

func javaExecutable(home string) string {
	return filepath.Join(home, "bin", "java")
}
