package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/cspace-puppet/cspace-user/internal/config"
	"github.com/cspace-puppet/cspace-user/internal/env"
	"github.com/cspace-puppet/cspace-user/internal/facts"
	"github.com/cspace-puppet/cspace-user/internal/functions"
	"github.com/cspace-puppet/cspace-user/internal/java"
	"github.com/cspace-puppet/cspace-user/internal/logging"
	"github.com/cspace-puppet/cspace-user/internal/password"
	"github.com/cspace-puppet/cspace-user/internal/theme"
	"github.com/cspace-puppet/cspace-user/internal/updater"
)

// Version is set during build time via ldflags
var Version = "dev"

const binaryName = "cspace-user"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "java-home":
		err = handleJavaHome(args)
	case "set-java-home":
		err = handleSetJavaHome(args)
	case "facts":
		err = handleFacts(args)
	case "generate-password":
		err = handleCall("generate_password", args)
	case "sha512-hash":
		err = handleCall("sha512_salted_hash", args)
	case "call":
		err = handleCallCommand(args)
	case "functions":
		err = handleFunctions(args)
	case "doctor":
		err = handleDoctor(args)
	case "update":
		err = handleUpdate()
	case "version", "-v", "--version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, theme.ErrorMessage(err.Error()))
		os.Exit(1)
	}
}

// exitError ends the process with code after its message was already printed
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// runtimeEnv bundles what every command needs after flag parsing
type runtimeEnv struct {
	cfg      *config.Config
	logger   zerolog.Logger
	family   java.OSFamily
	resolver *java.Resolver
}

// commonFlags are accepted by every command
type commonFlags struct {
	osFamily string
	verbose  bool
}

func newFlagSet(name, usage string) (*pflag.FlagSet, *commonFlags) {
	common := &commonFlags{}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&common.osFamily, "os-family", "", "OS family to resolve for (Debian, RedHat, Darwin, windows); detected when empty")
	fs.BoolVar(&common.verbose, "verbose", false, "log each probe to stderr")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s %s %s\n\nFlags:\n", binaryName, name, usage)
		fs.PrintDefaults()
	}
	return fs, common
}

func setupRuntime(common *commonFlags) (*runtimeEnv, error) {
	logger := logging.Setup(common.verbose)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	family := resolveFamily(common.osFamily, cfg.OSFamily)
	logger.Debug().Str("os_family", string(family)).Str("config", cfg.ConfigPath()).Msg("runtime ready")

	return &runtimeEnv{
		cfg:      cfg,
		logger:   logger,
		family:   family,
		resolver: java.NewResolver(cfg.Java, java.WithLogger(logger)),
	}, nil
}

// resolveFamily prefers the flag, then the config file, then detection
func resolveFamily(flagValue, configValue string) java.OSFamily {
	if flagValue != "" {
		return java.ParseOSFamily(flagValue)
	}
	if configValue != "" {
		return java.ParseOSFamily(configValue)
	}
	return java.DetectOSFamily(runtime.GOOS, java.DefaultOSReleasePath)
}

func handleJavaHome(args []string) error {
	fs, common := newFlagSet("java-home", "[flags]")
	detail := fs.Bool("detail", false, "show where the Java home came from and its version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := setupRuntime(common)
	if err != nil {
		return err
	}

	inst := rt.resolver.Detect(rt.family)
	if !*detail {
		fmt.Println(inst.Home)
		return nil
	}

	fmt.Println(theme.Field("OS family", string(rt.family)))
	if inst.Home == "" {
		fmt.Println(theme.WarningMessage("No Java home found"))
		return exitError{code: 1}
	}
	fmt.Println(theme.Field("JAVA_HOME", theme.PathStyle.Render(inst.Home)))
	fmt.Println(theme.Field("Source", string(inst.Source)))
	fmt.Println(theme.Field("Version", theme.ValueStyle.Render(rt.resolver.Version(inst.Home))))
	return nil
}

func printSetJavaHomeUsage(out io.Writer) {
	fmt.Fprintln(out, binaryName+" set-java-home")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Writes a statement setting the JAVA_HOME environment variable")
	fmt.Fprintln(out, "to a specified config file.")
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %s set-java-home filepath\n", binaryName)
	fmt.Fprintln(out, "where 'filepath' is a fully qualified path to a 'bash'-compatible config file.")
}

func handleSetJavaHome(args []string) error {
	return runSetJavaHome(os.Stdout, args, setupRuntime)
}

// runSetJavaHome writes the resolved JAVA_HOME into the file named by args.
// A missing argument or an unwritable file prints a message to out and
// yields exitError{1}.
func runSetJavaHome(out io.Writer, args []string, setup func(*commonFlags) (*runtimeEnv, error)) error {
	fs, common := newFlagSet("set-java-home", "[flags] <filepath>")
	interactive := fs.BoolP("interactive", "i", false, "confirm before writing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filePath := fs.Arg(0)
	if strings.TrimSpace(filePath) == "" {
		printSetJavaHomeUsage(out)
		return exitError{code: 1}
	}
	if !env.Writable(filePath) {
		fmt.Fprintf(out, "File '%s' either doesn't exist or isn't writeable by the effective user.\n", filePath)
		return exitError{code: 1}
	}

	rt, err := setup(common)
	if err != nil {
		return err
	}

	javaHome := rt.resolver.Resolve(rt.family)
	rt.logger.Info().Str("file", filePath).Str("java_home", javaHome).Msg("writing JAVA_HOME declaration")

	if *interactive && term.IsTerminal(int(os.Stdin.Fd())) {
		current, _ := env.CurrentJavaHome(filePath)
		confirmed, err := confirmAction(
			fmt.Sprintf("Write JAVA_HOME to %s?", filePath),
			fmt.Sprintf("Current: %s\nNew:     %s", displayValue(current), displayValue(javaHome)),
		)
		if err != nil || !confirmed {
			fmt.Fprintln(out, theme.WarningStyle.Render("Operation cancelled."))
			return nil
		}
	}

	if err := env.SetJavaHome(filePath, javaHome); err != nil {
		return err
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(out, theme.SuccessMessage(env.ExportStatement(javaHome)))
	}
	return nil
}

func handleFacts(args []string) error {
	fs, common := newFlagSet("facts", "[flags]")
	formatName := fs.String("format", "json", "output format (json or yaml)")
	output := fs.StringP("output", "o", "", "write an external fact file instead of printing")
	noEnv := fs.Bool("no-env", false, "omit env_* facts")
	merge := fs.Bool("merge", false, "with --output, keep facts already in the file that are not collected now")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := facts.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	rt, err := setupRuntime(common)
	if err != nil {
		return err
	}

	set := make(facts.Set)
	if !*noEnv {
		set.Merge(facts.EnvironmentFacts(os.Environ()))
	}
	collector := facts.NewCollector(rt.cfg.Java, java.OSProbe{}, java.ExecRunner{})
	set.Merge(collector.JavaHomeFacts(rt.family))
	set[facts.OSFamily] = string(rt.family)
	set[facts.JavaHome] = rt.resolver.Resolve(rt.family)

	target := *output
	if target != "" && rt.cfg.FactsDir != "" && !filepath.IsAbs(target) && !strings.ContainsRune(target, filepath.Separator) {
		target = filepath.Join(rt.cfg.FactsDir, target)
	}
	if target != "" {
		if *merge {
			existing, err := facts.ReadFile(target, format)
			if err != nil {
				return err
			}
			existing.Merge(set)
			set = existing
		}
		if err := facts.WriteFile(target, set, format); err != nil {
			return err
		}
		rt.logger.Info().Str("file", target).Int("facts", len(set)).Msg("wrote external facts")
		return nil
	}

	data, err := facts.Encode(set, format)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func newRegistry(rt *runtimeEnv) *functions.Registry {
	return functions.NewRegistry(rt.resolver, rt.family, password.NewGenerator())
}

// handleCall runs one registered function with the command-line arguments
// Only flags before the first argument are parsed, so a value such as
// '-secret' reaches the function untouched.
func handleCall(name string, args []string) error {
	fs, common := newFlagSet(strings.ReplaceAll(name, "_", "-"), "[flags] [--] [args...]")
	fs.SetInterspersed(false)
	flagArgs, positional := splitLeadingFlags(fs, args)
	if err := fs.Parse(flagArgs); err != nil {
		return err
	}

	rt, err := setupRuntime(common)
	if err != nil {
		return err
	}

	callArgs := make([]any, 0, len(positional))
	for _, a := range positional {
		callArgs = append(callArgs, a)
	}

	result, err := newRegistry(rt).Call(name, callArgs...)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}

// splitLeadingFlags separates the flags fs knows about at the front of args
// from everything after them. A "--" ends the flags and is dropped.
func splitLeadingFlags(fs *pflag.FlagSet, args []string) (flagArgs, rest []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return args[:i], args[i+1:]
		}
		if arg == "-h" || arg == "--help" {
			continue
		}
		if !strings.HasPrefix(arg, "--") {
			return args[:i], args[i:]
		}

		name, _, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		flag := fs.Lookup(name)
		if flag == nil {
			return args[:i], args[i:]
		}
		if !hasValue && flag.Value.Type() != "bool" {
			// Value is the next argument
			i++
		}
	}
	return args, nil
}

func handleCallCommand(args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s call <function> [--] [args...]\n", binaryName)
		return exitError{code: 1}
	}
	return handleCall(args[0], args[1:])
}

func handleFunctions(args []string) error {
	fs, common := newFlagSet("functions", "")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, err := setupRuntime(common)
	if err != nil {
		return err
	}

	registry := newRegistry(rt)
	fmt.Println(theme.Title.Render("Functions"))
	fmt.Println()
	for _, name := range registry.Names() {
		fn, _ := registry.Lookup(name)
		fmt.Printf("  %s\n      %s\n", theme.CommandStyle.Render(name+"()"), theme.Faint.Render(fn.Doc))
	}
	return nil
}

func handleDoctor(args []string) error {
	fs, common := newFlagSet("doctor", "[flags]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, err := setupRuntime(common)
	if err != nil {
		return err
	}

	fmt.Println(theme.Title.Render("cspace-user - System Diagnostics"))
	fmt.Println()

	issues := []string{}
	warnings := []string{}

	// 1. OS family
	fmt.Println(theme.LabelStyle.Render("Checking OS family..."))
	switch rt.family {
	case java.Debian, java.RedHat, java.Darwin:
		fmt.Println("  " + theme.SuccessMessage("OS family: "+string(rt.family)))
	default:
		fmt.Println("  " + theme.WarningMessage(fmt.Sprintf("OS family %s has no Java home heuristics", rt.family)))
		warnings = append(warnings, "java_home() always returns an empty string on this OS family")
	}
	fmt.Println()

	// 2. Probes
	fmt.Println(theme.LabelStyle.Render("Probing Java home candidates..."))
	var inst java.Installation
	var altCmd, altCandidate, osxCandidate string
	probe := func() error {
		inst = rt.resolver.Detect(rt.family)
		if rt.family == java.Debian || rt.family == java.RedHat {
			altCmd = rt.resolver.AlternativesCommandPath()
			altCandidate = rt.resolver.AlternativesCandidate()
		}
		if rt.family == java.Darwin {
			osxCandidate = rt.resolver.OSXCandidate()
		}
		return nil
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		err = java.WithSpinner("Probing for a Java home...", probe)
	} else {
		err = probe()
	}
	if err != nil {
		return err
	}

	paths := rt.resolver.Paths()
	if rt.family == java.RedHat {
		reportCandidate(rt.resolver, "Default ("+paths.RedHatJavaHome+")", paths.RedHatJavaHome)
	}
	if rt.family == java.Debian || rt.family == java.RedHat {
		if altCmd == "" {
			fmt.Println("  " + theme.WarningMessage("alternatives command not found: "+paths.AlternativesCommand))
			warnings = append(warnings, "The alternatives system is unavailable")
		} else {
			fmt.Println("  " + theme.Field("alternatives", theme.PathStyle.Render(altCmd)))
			reportCandidate(rt.resolver, "alternatives candidate", altCandidate)
		}
	}
	if rt.family == java.Darwin {
		reportCandidate(rt.resolver, "java_home utility", osxCandidate)
	}
	envJavaHome := os.Getenv("JAVA_HOME")
	reportCandidate(rt.resolver, "JAVA_HOME", envJavaHome)
	fmt.Println()

	// 3. Result
	fmt.Println(theme.LabelStyle.Render("Resolved Java home..."))
	if inst.Home == "" {
		fmt.Println("  " + theme.ErrorMessage("No Java home could be determined"))
		issues = append(issues, "java_home() returns an empty string")
	} else {
		fmt.Printf("  %s %s %s\n",
			theme.SuccessMessage("Resolved:"),
			theme.PathStyle.Render(inst.Home),
			theme.Faint.Render("("+string(inst.Source)+")"))
		fmt.Println("  " + theme.Field("Version", theme.ValueStyle.Render(rt.resolver.Version(inst.Home))))
		if envJavaHome != "" && filepath.Clean(envJavaHome) != filepath.Clean(inst.Home) {
			warnings = append(warnings, fmt.Sprintf("JAVA_HOME (%s) differs from the resolved home", envJavaHome))
		}
	}
	fmt.Println()

	// 4. Configuration
	fmt.Println(theme.LabelStyle.Render("Checking configuration..."))
	if _, err := os.Stat(rt.cfg.ConfigPath()); os.IsNotExist(err) {
		fmt.Println("  " + theme.InfoMessage("No configuration file; using defaults"))
	} else {
		fmt.Println("  " + theme.SuccessMessage("Configuration loaded from "+rt.cfg.ConfigPath()))
	}
	fmt.Println()

	// 5. Password tooling
	fmt.Println(theme.LabelStyle.Render("Checking password hashing..."))
	gen := password.NewGenerator()
	hash, err := gen.SaltedHash("doctor")
	if err != nil || !password.VerifyHash(hash, "doctor") {
		fmt.Println("  " + theme.ErrorMessage("SHA-512 crypt self-test failed"))
		issues = append(issues, "sha512_salted_hash() does not round-trip")
	} else {
		fmt.Println("  " + theme.SuccessMessage("SHA-512 crypt self-test passed"))
	}
	fmt.Println()

	// Summary
	fmt.Println(theme.Title.Render("Diagnostics Summary"))
	fmt.Println()

	if len(issues) == 0 && len(warnings) == 0 {
		fmt.Println(theme.SuccessBox.Render(theme.SuccessMessage("All checks passed!")))
		checkForUpdateBackground()
		return nil
	}

	var summary strings.Builder
	if len(issues) > 0 {
		summary.WriteString(theme.ErrorStyle.Render(fmt.Sprintf("Issues Found: %d", len(issues))) + "\n\n")
		for _, issue := range issues {
			summary.WriteString(theme.ErrorMessage(issue) + "\n")
		}
	}
	if len(warnings) > 0 {
		if len(issues) > 0 {
			summary.WriteString("\n")
		}
		summary.WriteString(theme.WarningStyle.Render(fmt.Sprintf("Warnings: %d", len(warnings))) + "\n\n")
		for _, warning := range warnings {
			summary.WriteString(theme.WarningMessage(warning) + "\n")
		}
	}
	fmt.Println(theme.Box.Render(strings.TrimRight(summary.String(), "\n")))

	checkForUpdateBackground()
	if len(issues) > 0 {
		return exitError{code: 1}
	}
	return nil
}

// reportCandidate prints whether candidate is a usable Java home
func reportCandidate(resolver *java.Resolver, label, candidate string) {
	switch {
	case strings.TrimSpace(candidate) == "":
		fmt.Println("  " + theme.Faint.Render("- "+label+": none"))
	case resolver.IsValidJavaHome(candidate):
		fmt.Printf("  %s %s\n", theme.SuccessMessage(label+":"), theme.PathStyle.Render(candidate))
	default:
		fmt.Printf("  %s %s %s\n", theme.ErrorStyle.Render("✗ "+label+":"), theme.PathStyle.Render(candidate), theme.Faint.Render("(no executable bin/java)"))
	}
}

func displayValue(v string) string {
	if v == "" {
		return "(empty)"
	}
	return v
}

// confirmAction shows a confirmation prompt
func confirmAction(title, description string) (bool, error) {
	var confirmed bool

	err := huh.NewConfirm().
		Title(theme.Subtitle.Render(title)).
		Description(theme.Faint.Render(description)).
		Affirmative(theme.SuccessStyle.Render("Yes")).
		Negative(theme.ErrorStyle.Render("No")).
		Value(&confirmed).
		Run()

	return confirmed, err
}

func handleUpdate() error {
	logging.Setup(false)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.UpdateConfig.Enabled {
		fmt.Println(theme.WarningStyle.Render("Updates are disabled in configuration."))
		fmt.Println(theme.Faint.Render("To enable, edit " + cfg.ConfigPath() + " and set update_config.enabled to true"))
		return nil
	}

	upd, err := updater.NewUpdater(cfg, Version)
	if err != nil {
		return err
	}

	fmt.Println(theme.InfoStyle.Render("Checking for updates..."))

	ctx, cancel := context.WithTimeout(context.Background(), updater.UpdateTimeout)
	defer cancel()

	release, err := upd.CheckForUpdate(ctx)
	if err != nil {
		return err
	}
	if release == nil {
		fmt.Println(theme.SuccessMessage(fmt.Sprintf("You're already running the latest version (%s)", Version)))
		return nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		updater.ShowUpdateNotification(upd.CurrentVersion(), release.Version())
		return nil
	}

	action, err := upd.PromptForUpdate(release)
	if err != nil {
		fmt.Println(theme.WarningStyle.Render("Update cancelled."))
		return nil
	}
	switch action {
	case updater.ActionSkip:
		fmt.Println(theme.InfoMessage(fmt.Sprintf("Skipped version %s", release.Version())))
		return nil
	case updater.ActionLater:
		fmt.Println(theme.InfoMessage("Update postponed"))
		return nil
	}

	fmt.Println(theme.InfoStyle.Render(fmt.Sprintf("Downloading %s %s...", binaryName, release.Version())))
	if err := upd.PerformUpdate(ctx, release); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	updater.ShowUpdateSuccess(release.Version())
	return nil
}

func checkForUpdateBackground() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		return
	}
	upd, err := updater.NewUpdater(cfg, Version)
	if err != nil || !upd.ShouldCheckForUpdate() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	release, err := upd.CheckForUpdate(ctx)
	if err != nil || release == nil {
		return
	}
	updater.ShowUpdateNotification(upd.CurrentVersion(), release.Version())
}

func printVersion() {
	fmt.Printf("%s %s %s\n",
		theme.Subtitle.Render(binaryName),
		theme.Faint.Render("version"),
		theme.ValueStyle.Render(Version))
	fmt.Println(theme.Faint.Render("https://github.com/" + updater.GitHubRepo))
}

func printUsage() {
	fmt.Println(theme.Subtitle.Render(binaryName + " - Java home, facts and password helpers for host provisioning"))
	fmt.Println()

	fmt.Println(theme.Title.Render("USAGE"))
	fmt.Println(theme.Faint.Render("  " + binaryName + " <command> [flags] [arguments]"))
	fmt.Println()

	commandStyle := theme.CommandStyle
	descStyle := theme.Faint
	row := func(cmd, desc string) {
		fmt.Printf("  %-32s %s\n", commandStyle.Render(cmd), descStyle.Render(desc))
	}

	fmt.Println(theme.Subtitle.Render("JAVA"))
	row("java-home [--detail]", "Print the probable JAVA_HOME directory")
	row("set-java-home <file>", "Write export JAVA_HOME='...' to a bash config file")
	fmt.Println()

	fmt.Println(theme.Subtitle.Render("FACTS"))
	row("facts [--format json|yaml]", "Print env_* and Java home facts")
	row("facts --output <file>", "Write an external fact file")
	fmt.Println()

	fmt.Println(theme.Subtitle.Render("FUNCTIONS"))
	row("generate-password [length]", fmt.Sprintf("Generate a password (minimum %d characters)", password.MinLength))
	row("sha512-hash <password>", "Salted SHA-512 crypt hash")
	row("call <function> [--] [args...]", "Call a function by name")
	row("functions", "List available functions")
	fmt.Println()

	fmt.Println(theme.Subtitle.Render("OTHER"))
	row("doctor", "Run diagnostics")
	row("update", "Check for and install updates")
	row("version", "Show version information")
	row("help", "Show this help message")
	fmt.Println()

	fmt.Println(theme.Title.Render("FLAGS"))
	fmt.Println("  " + theme.Code.Render("--os-family <name>") + "   Debian, RedHat, Darwin or windows (detected by default)")
	fmt.Println("  " + theme.Code.Render("--verbose") + "            Log every probe (or set LOG_LEVEL=debug)")
	fmt.Println("  " + theme.Code.Render("--") + "                   End of flags; later arguments are passed as-is")
	fmt.Println()

	fmt.Println(theme.Title.Render("EXAMPLES"))
	fmt.Println("  " + theme.Code.Render(binaryName+" set-java-home ~/.bashrc"))
	fmt.Println("  " + theme.Code.Render(binaryName+" facts --format yaml -o /etc/facter/facts.d/cspace.yaml"))
	fmt.Println("  " + theme.Code.Render(binaryName+" call generate_password 16"))
	fmt.Println("  " + theme.Code.Render(binaryName+" sha512-hash -- --my-secret"))
}
