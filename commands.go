package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	api        string
	timeout    string
	configPath string
	lang       string
	ui         string
	debugLog   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:          "stepview [file]",
		Short:        "Step through program executions in the terminal",
		Long:         `stepview sends code to an execution backend and plays back the recorded trace step by step`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts, args, nil)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.api, "api", "", "backend base URL (default from config or "+defaultAPIURL+")")
	flags.StringVar(&opts.timeout, "timeout", "", "request timeout, e.g. 60s")
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/"+configFileName+")")
	flags.StringVar(&opts.lang, "lang", "", "language: python|java|typescript|react")
	flags.StringVar(&opts.ui, "ui", "auto", "interactive UI (auto|on|off)")
	flags.StringVar(&opts.debugLog, "debug-log", "", "write debug log to this file")

	root.AddCommand(
		newRunCmd(opts, OpVisualize, "visualize <file>", "Visualize a program and step through its trace"),
		newRunCmd(opts, OpExecute, "execute <file>", "Run a program and show its output"),
		newReplayCmd(opts),
		newExportCmd(opts),
		newHealthCmd(opts),
	)
	return root
}

func newRunCmd(opts *globalOptions, op Operation, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts, args, &op)
		},
	}
}

func newReplayCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <recording" + recordingExtension + ">",
		Short: "Step through a saved recording without the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.load()
			if err != nil {
				return err
			}
			rec, err := loadRecording(args[0])
			if err != nil {
				return err
			}
			tui, err := opts.useTUI()
			if err != nil {
				return err
			}
			if !tui {
				return printRecording(cmd.OutOrStdout(), rec, viewTabs)
			}
			m := initialModel(config, NewClient(config.APIURL, config.Timeout), rec.Language, rec.Code)
			m.loadReplay(rec)
			return runProgram(m)
		},
	}
}

type exportOptions struct {
	tab    string
	step   int
	format string
	out    string
	frames string
	jobs   int
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	eo := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export <recording" + recordingExtension + ">",
		Short: "Render a view of a saved recording to PNG, text or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.load(); err != nil {
				return err
			}
			rec, err := loadRecording(args[0])
			if err != nil {
				return err
			}
			return runExport(cmd, rec, args[0], eo)
		},
	}
	cmd.Flags().StringVar(&eo.tab, "tab", "flow", "view: timeline|stack|memory|flow|data")
	cmd.Flags().IntVar(&eo.step, "step", 1, "step number, starting at 1")
	cmd.Flags().StringVar(&eo.format, "format", "png", "output format (png|txt|dot)")
	cmd.Flags().StringVarP(&eo.out, "output", "o", "", "output file (default derived from the recording name)")
	cmd.Flags().StringVar(&eo.frames, "frames", "", "render every step as PNG into this directory")
	cmd.Flags().IntVar(&eo.jobs, "jobs", 4, "parallel renders with --frames")
	return cmd
}

func runExport(cmd *cobra.Command, rec Recording, recPath string, eo *exportOptions) error {
	tab, err := parseViewTab(eo.tab)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if eo.frames != "" {
		paths, err := exportFrames(cmd.Context(), eo.frames, tab, rec, eo.jobs)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %d frames to %s\n", len(paths), eo.frames)
		return nil
	}

	index := eo.step - 1
	if index < 0 || index >= len(rec.Steps) {
		return fmt.Errorf("step %d out of range (recording has %d steps)", eo.step, len(rec.Steps))
	}
	format := strings.ToLower(eo.format)
	path := eo.out
	if path == "" {
		base := strings.TrimSuffix(filepath.Base(recPath), filepath.Ext(recPath))
		path = fmt.Sprintf("%s-%s-step%d.%s", base, tab.Name(), eo.step, format)
	}
	switch format {
	case "png":
		err = exportPNG(path, tab, rec.Steps, index, rec.Source())
	case "txt":
		err = exportText(path, tab, rec.Steps, index, rec.Source(), defaultColumns)
	case "dot":
		err = exportDOT(path, strings.TrimSuffix(filepath.Base(path), ".dot"), rec.Steps[index])
	default:
		return fmt.Errorf("unknown format %q (expected png|txt|dot)", eo.format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}

func newHealthCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.load()
			if err != nil {
				return err
			}
			client := NewClient(config.APIURL, config.Timeout)
			status, err := client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", config.APIURL, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", config.APIURL, status)
			return nil
		},
	}
}

// runInteractive loads code from args (or the language template) and either
// opens the TUI or, with --ui off, runs op once and prints the result.
func runInteractive(cmd *cobra.Command, opts *globalOptions, args []string, op *Operation) error {
	config, err := opts.load()
	if err != nil {
		return err
	}
	lang := config.Language
	code := ""
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		code = string(data)
		if detected, ok := languageForFile(args[0]); ok && opts.lang == "" {
			lang = detected
		}
	}

	client := NewClient(config.APIURL, config.Timeout)
	tui, err := opts.useTUI()
	if err != nil {
		return err
	}
	if !tui {
		if op == nil {
			return errors.New("a file and a subcommand (visualize or execute) are required with --ui off")
		}
		return runPlain(cmd.Context(), cmd.OutOrStdout(), client, *op, lang, code)
	}

	m := initialModel(config, client, lang, code)
	if op != nil {
		m.initCmd = m.startRun(*op)
	}
	return runProgram(m)
}

// runPlain performs a single request and prints every step.
func runPlain(ctx context.Context, w io.Writer, backend runner, op Operation, lang Language, code string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := backend.Run(ctx, op, Request{Code: code, Language: lang})
	if err != nil {
		if resp.Output != "" {
			fmt.Fprintln(w, resp.Output)
		}
		return errors.New(UserMessage(op, err))
	}
	return printRecording(w, newRecording(lang, code, resp), viewTabs)
}

func (o *globalOptions) load() (*Config, error) {
	path, explicit := o.configPath, o.configPath != ""
	if !explicit {
		path = defaultConfigPath()
	}
	config, err := loadConfig(path, explicit)
	if err != nil {
		return nil, err
	}
	if o.api != "" {
		config.APIURL = strings.TrimRight(o.api, "/")
	}
	if o.timeout != "" {
		if config.Timeout, err = parsePositiveDuration(o.timeout); err != nil {
			return nil, fmt.Errorf("--timeout: %w", err)
		}
	}
	if o.lang != "" {
		if config.Language, err = parseLanguage(o.lang); err != nil {
			return nil, fmt.Errorf("--lang: %w", err)
		}
	}
	if err := o.setupLogging(); err != nil {
		return nil, err
	}
	return config, nil
}

func (o *globalOptions) useTUI() (bool, error) {
	mode, err := readUIMode(o.ui)
	if err != nil {
		return false, err
	}
	return shouldUseTUI(mode), nil
}

// setupLogging sends the log package to --debug-log, or silences it so it
// cannot corrupt the terminal.
func (o *globalOptions) setupLogging() error {
	if o.debugLog == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	if _, err := tea.LogToFile(o.debugLog, "stepview"); err != nil {
		return fmt.Errorf("--debug-log: %w", err)
	}
	return nil
}

func runProgram(m model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
