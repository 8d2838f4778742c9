package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rv32emu/baserv1e/config"
	"github.com/rv32emu/baserv1e/loader"
	"github.com/rv32emu/baserv1e/uart"
	"github.com/rv32emu/baserv1e/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		configPath  string
		maxInstr    uint64
		enableTrace bool
		traceFile   string
		verboseMode bool
		noRawTTY    bool
	)

	rootCmd := &cobra.Command{
		Use:     "baserv1e [image]",
		Short:   "BaseRV1E: a minimal RV32I hart emulator",
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, runOptions{
				configPath:  configPath,
				maxInstr:    maxInstr,
				enableTrace: enableTrace,
				traceFile:   traceFile,
				verbose:     verboseMode,
				noRawTTY:    noRawTTY,
			})
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: platform config dir)")
	rootCmd.Flags().Uint64Var(&maxInstr, "max-instr", 0, "Maximum instructions to retire before stopping (0 = unbounded)")
	rootCmd.Flags().BoolVar(&enableTrace, "trace", false, "Enable per-instruction execution trace")
	rootCmd.Flags().StringVar(&traceFile, "trace-file", "", "Trace output file (default: config's trace_file, trace.log in the working directory; config's log dir if trace_file is empty)")
	rootCmd.Flags().BoolVarP(&verboseMode, "verbose", "v", false, "Verbose startup output")
	rootCmd.Flags().BoolVar(&noRawTTY, "no-raw-tty", false, "Do not put the controlling terminal into raw mode")

	rootCmd.SetVersionTemplate(fmt.Sprintf("BaseRV1E %s (commit %s, built %s)\n", Version, Commit, Date))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type runOptions struct {
	configPath  string
	maxInstr    uint64
	enableTrace bool
	traceFile   string
	verbose     bool
	noRawTTY    bool
}

func run(args []string, opts runOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	imagePath := loader.DefaultImagePath
	if len(args) > 0 {
		imagePath = args[0]
	}

	if opts.verbose {
		fmt.Printf("Loading memory image: %s\n", imagePath)
	}

	uartDevice, closeUART, err := buildUART(cfg, opts)
	if err != nil {
		return fmt.Errorf("initializing UART: %w", err)
	}
	defer closeUART()

	bus := vm.NewBus(uartDevice)
	if err := loader.Load(bus, imagePath); err != nil {
		return err
	}

	hart := vm.NewHart(bus)

	maxInstr := opts.maxInstr
	if maxInstr == 0 {
		maxInstr = cfg.Execution.MaxInstructions
	}

	enableTrace := opts.enableTrace || cfg.Execution.EnableTrace
	if enableTrace {
		traceWriter, closeTrace, err := openTraceFile(cfg, opts)
		if err != nil {
			return fmt.Errorf("opening trace file: %w", err)
		}
		defer closeTrace()

		hart.Trace = vm.NewTrace(traceWriter)
		hart.Trace.MaxEntries = cfg.Execution.MaxTraceEntries
	}

	if opts.verbose {
		fmt.Println("Starting execution...")
	}

	hart.Run(maxInstr)

	if opts.verbose {
		fmt.Printf("Retired %d instructions\n", hart.Retired)
	}

	// A fatal exception halting the hart is an expected stop, not a
	// startup failure: this core has no trap handler to distinguish
	// "crash" from "intended stop" any further than spec.md already
	// does, so it is logged and reported with a clean exit.
	if fault := hart.HaltFault(); fault != nil {
		fmt.Fprintf(os.Stderr, "hart halted: %v\n", fault)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func buildUART(cfg *config.Config, opts runOptions) (*uart.Device, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	in, isStdin, err := openUARTInput(cfg, &closers)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	out, err := openUARTOutput(cfg, &closers)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	useRawTTY := isStdin && cfg.Terminal.RawMode && !opts.noRawTTY
	if !useRawTTY {
		dev := uart.New(in, out)
		closers = append(closers, func() { _ = dev.Close() })
		return dev, closeAll, nil
	}

	dev, err := uart.NewTerminal(int(os.Stdin.Fd()), in, out)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	closers = append(closers, func() { _ = dev.Close() })
	return dev, closeAll, nil
}

// openUARTInput opens cfg.UART.InputFile if set, falling back to the
// controlling terminal's stdin otherwise; the bool reports whether
// stdin is in play (only then is raw-mode meaningful).
func openUARTInput(cfg *config.Config, closers *[]func()) (*os.File, bool, error) {
	if cfg.UART.InputFile == "" {
		return os.Stdin, true, nil
	}
	f, err := os.Open(cfg.UART.InputFile) // #nosec G304 -- user-specified UART input path
	if err != nil {
		return nil, false, err
	}
	*closers = append(*closers, func() { _ = f.Close() })
	return f, false, nil
}

// openUARTOutput opens cfg.UART.OutputFile if set, falling back to
// stdout otherwise.
func openUARTOutput(cfg *config.Config, closers *[]func()) (*os.File, error) {
	if cfg.UART.OutputFile == "" {
		return os.Stdout, nil
	}
	f, err := os.Create(cfg.UART.OutputFile) // #nosec G304 -- user-specified UART output path
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, func() { _ = f.Close() })
	return f, nil
}

func openTraceFile(cfg *config.Config, opts runOptions) (*os.File, func(), error) {
	path := opts.traceFile
	if path == "" {
		path = cfg.Execution.TraceFile
	}
	if path == "" {
		path = filepath.Join(config.GetLogPath(), "trace.log")
	}

	f, err := os.Create(path) // #nosec G304 -- user-specified trace output path
	if err != nil {
		return nil, nil, err
	}
	return f, func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close trace file: %v\n", cerr)
		}
	}, nil
}
