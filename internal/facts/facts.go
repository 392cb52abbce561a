// Package facts publishes host information as flat name/value facts:
// every environment variable as env_<name>, plus the Java home candidates
// found through the alternatives system and the OS X java_home utility.
package facts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cspace-puppet/cspace-user/internal/java"
)

// Fact names
const (
	EnvPrefix            = "env_"
	JavaHomeAlternatives = "java_home_alternatives"
	JavaHomeOSX          = "java_home_osx"
	JavaHome             = "java_home"
	OSFamily             = "osfamily"
)

// Format selects the encoding of a fact set
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported facts format %q (want json or yaml)", name)
	}
}

// Set maps fact names to values
type Set map[string]string

// Names returns the fact names in sorted order
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge copies every fact from other into s, overwriting duplicates
func (s Set) Merge(other Set) {
	for k, v := range other {
		s[k] = v
	}
}

// EnvironmentFacts turns KEY=value pairs, as returned by os.Environ, into
// env_<lowercased key> facts
func EnvironmentFacts(environ []string) Set {
	set := make(Set, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		set[EnvPrefix+strings.ToLower(key)] = value
	}
	return set
}

// Collector gathers the Java home candidate facts for one system
type Collector struct {
	paths  java.Paths
	probe  java.FileProbe
	runner java.CommandRunner
}

// NewCollector creates a Collector. paths are merged with the defaults.
func NewCollector(paths java.Paths, probe java.FileProbe, runner java.CommandRunner) *Collector {
	return &Collector{
		paths:  paths.Merge(),
		probe:  probe,
		runner: runner,
	}
}

// JavaHomeFacts returns the java_home_alternatives fact on Linux families and
// the java_home_osx fact on Darwin. Facts whose probe yields nothing are omitted.
func (c *Collector) JavaHomeFacts(family java.OSFamily) Set {
	set := make(Set, 1)
	switch family {
	case java.Debian, java.RedHat:
		if v := c.alternativesBest(); v != "" {
			set[JavaHomeAlternatives] = v
		}
	case java.Darwin:
		if v := c.osxJavaHome(); v != "" {
			set[JavaHomeOSX] = v
		}
	}
	return set
}

func (c *Collector) alternativesBest() string {
	cmd := c.paths.RedHatAlternativesPath
	if !c.probe.Exists(cmd) {
		return ""
	}
	out, err := c.runner.Output(cmd, "--display", "java")
	if err != nil {
		return ""
	}
	return ParseBestAlternative(out)
}

func (c *Collector) osxJavaHome() string {
	utility := c.paths.OSXJavaHomeUtility
	if !c.probe.Exists(utility) {
		return ""
	}
	out, err := c.runner.Output(utility)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ParseBestAlternative reads RedHat 'alternatives --display java' output,
// e.g. "Current `best' version is /usr/lib/jvm/jre-1.8.0/bin/java.", and
// returns the directory above bin/java
func ParseBestAlternative(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "best") {
			continue
		}
		fields := strings.Split(strings.TrimRight(line, "\r"), " ")
		if len(fields) < 5 {
			return ""
		}
		path := fields[4]
		// Drop "/bin/java" and the sentence's closing character
		if idx := strings.LastIndex(path, "/bin/java"); idx >= 0 && len(path)-idx-len("/bin/java") <= 1 {
			path = path[:idx]
		}
		return strings.TrimSpace(path)
	}
	return ""
}

// Encode renders s in the given format with keys in sorted order
func Encode(s Set, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		// encoding/json sorts map keys
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s.node()); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported facts format %q", format)
	}
}

// node builds a mapping node so values are always emitted as strings
func (s Set) node() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range s.Names() {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s[name]},
		)
	}
	return n
}

// Decode parses facts previously written by Encode
func Decode(data []byte, format Format) (Set, error) {
	set := make(Set)
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &set)
	case FormatYAML:
		err = yaml.Unmarshal(data, &set)
	default:
		err = fmt.Errorf("unsupported facts format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return set, nil
}

// formatForPath returns the format implied by path's extension, or fallback
func formatForPath(path string, fallback Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return fallback
}

// ReadFile loads an external fact file. A missing file yields an empty Set.
// The format is taken from the file extension when it is .json, .yaml or .yml.
func ReadFile(path string, format Format) (Set, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(Set), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	set, err := Decode(data, formatForPath(path, format))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return set, nil
}

// WriteFile writes s as an external fact file. The format is taken from
// the file extension when it is .json, .yaml or .yml.
func WriteFile(path string, s Set, format Format) error {
	data, err := Encode(s, formatForPath(path, format))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
