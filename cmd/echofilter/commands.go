package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agenthands/echofilter/internal/client"
	"github.com/agenthands/echofilter/internal/core"
	"github.com/agenthands/echofilter/internal/core/model"
	"github.com/agenthands/echofilter/internal/report"
	"github.com/agenthands/echofilter/internal/server"
	"github.com/agenthands/echofilter/internal/transcribe"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var audioPath, outPath string

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe an audio file and save the initial transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			backend, err := transcribe.NewBackend(cfg.Transcription)
			if err != nil {
				return err
			}

			tr, err := backend.Transcribe(cmd.Context(), audioPath)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = cfg.Transcription.OutputPath
			}
			if outPath != "" {
				if err := transcribe.WriteTranscript(outPath, tr); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Initial transcript saved to %s\n", outPath)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "\n--- Initial Transcript ---")
			fmt.Fprint(cmd.OutOrStdout(), tr.Text())
			return nil
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio_path", "", "Input audio file (.wav, .mp3)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Transcript output path (default from config)")
	_ = cmd.MarkFlagRequired("audio_path")
	return cmd
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var audioPath, outDir string
	var categories []string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Transcribe, categorize, classify and explain an audio file",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeStore, err := ctx.pipeline(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			a, err := p.Process(cmd.Context(), core.Request{
				AudioPath:  audioPath,
				AudioName:  filepath.Base(audioPath),
				Categories: categories,
			})
			if err != nil {
				return err
			}
			return ctx.finish(cmd, a, outDir)
		},
	}

	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Input audio file (.wav, .mp3)")
	cmd.Flags().StringArrayVar(&categories, "category", nil, "Category to detect (repeatable)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Report directory (default from config)")
	_ = cmd.MarkFlagRequired("audio")
	return cmd
}

func newAnalyzeTextCommand(ctx *commandContext) *cobra.Command {
	var transcriptPath, outDir string
	var categories []string

	cmd := &cobra.Command{
		Use:   "analyze-text",
		Short: "Analyze an existing newline separated transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(transcriptPath)
			if err != nil {
				return err
			}

			p, closeStore, err := ctx.pipeline(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			a, err := p.Analyze(cmd.Context(), filepath.Base(transcriptPath), string(data), categories)
			if err != nil {
				return err
			}
			return ctx.finish(cmd, a, outDir)
		},
	}

	cmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "Transcript text file")
	cmd.Flags().StringArrayVar(&categories, "category", nil, "Category to detect (repeatable)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Report directory (default from config)")
	_ = cmd.MarkFlagRequired("transcript")
	return cmd
}

func (c *commandContext) pipeline(cmd *cobra.Command) (*core.Pipeline, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := c.openStore()
	if err != nil {
		return nil, nil, err
	}
	p, err := core.Build(cmd.Context(), cfg, st)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return p, func() { st.Close() }, nil
}

func (c *commandContext) finish(cmd *cobra.Command, a *model.Analysis, outDir string) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.Analysis.ReportDir
	}

	renderLines(cmd.OutOrStdout(), a)

	analyzed, redacted, err := report.WriteFiles(outDir, a)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Analysis %s\nReports: %s, %s\n", a.ID, analyzed, redacted)
	return nil
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var serverURL string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []model.Summary
			if serverURL != "" {
				var err error
				if list, err = client.New(serverURL).List(cmd.Context(), limit); err != nil {
					return err
				}
			} else {
				st, err := ctx.openStore()
				if err != nil {
					return err
				}
				defer st.Close()

				if list, err = st.List(cmd.Context(), limit); err != nil {
					return err
				}
			}

			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No analyses stored")
				return nil
			}
			renderSummaries(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of analyses to list")
	cmd.Flags().StringVar(&serverURL, "server", "", "Read history from a running server instead of the local store")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var redacted, markdown bool
	var serverURL string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored analysis report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if redacted && markdown {
				return errors.New("--redacted and --markdown are mutually exclusive")
			}

			a, err := ctx.fetchAnalysis(cmd, serverURL, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case redacted:
				fmt.Fprint(out, report.Redacted(a))
			case markdown:
				fmt.Fprint(out, report.Markdown(a))
			default:
				fmt.Fprint(out, report.Analyzed(a))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&redacted, "redacted", false, "Print the redacted transcript")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print a markdown summary")
	cmd.Flags().StringVar(&serverURL, "server", "", "Fetch the analysis from a running server instead of the local store")
	return cmd
}

func (c *commandContext) fetchAnalysis(cmd *cobra.Command, serverURL, id string) (*model.Analysis, error) {
	if serverURL != "" {
		return client.New(serverURL).Get(cmd.Context(), id)
	}

	st, err := c.openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Get(cmd.Context(), id)
}

func newSubmitCommand() *cobra.Command {
	var serverURL, audioPath string
	var categories []string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send an audio file to a running echofilter server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := client.New(serverURL).Submit(cmd.Context(), audioPath, categories)
			if err != nil {
				return err
			}
			renderLines(cmd.OutOrStdout(), a)
			fmt.Fprintf(cmd.OutOrStdout(), "%s/analyses/%s\n", serverURL, a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Server base URL")
	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Input audio file (.wav, .mp3)")
	cmd.Flags().StringArrayVar(&categories, "category", nil, "Category to detect (repeatable)")
	_ = cmd.MarkFlagRequired("audio")
	return cmd
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			srv, err := server.NewServer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer srv.Store.Close()

			fmt.Fprintf(cmd.ErrOrStderr(), "Starting server on port %s\n", cfg.Server.Port)
			return srv.SetupRouter().Run(":" + cfg.Server.Port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default from config)")
	return cmd
}
