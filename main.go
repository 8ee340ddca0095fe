package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apiapp "glossa/internal/api/app"
	"glossa/internal/config"
)

const settingLastTermbase = "last_termbase"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string
	var app *App

	cmd := &cobra.Command{
		Use:           "glossa",
		Short:         "Terminology database manager",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Logging.Level)
			if err != nil {
				return err
			}
			app, err = NewApp(cfg, log)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")

	cmd.AddCommand(
		termbaseCmd(&app),
		languageCmd(&app),
		searchCmd(&app),
		statsCmd(&app),
	)
	return cmd
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func termbaseCmd(app **App) *cobra.Command {
	cmd := &cobra.Command{Use: "termbase", Short: "Manage termbases"}

	var desc string
	create := &cobra.Command{
		Use:  "create NAME",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := (*app).Termbases.Create(cmd.Context(), args[0], desc)
			if err != nil {
				return err
			}
			if err := (*app).Settings.Set(cmd.Context(), settingLastTermbase, strconv.FormatInt(tb.ID, 10)); err != nil {
				return err
			}
			fmt.Printf("created termbase %d\n", tb.ID)
			return nil
		},
	}
	create.Flags().StringVar(&desc, "description", "", "termbase description")

	list := &cobra.Command{
		Use:  "list",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbs, err := (*app).Termbases.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, tb := range tbs {
				fmt.Printf("%d\t%s\t%s\n", tb.ID, tb.Name, tb.Description)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:  "delete ID",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("termbase id: %w", err)
			}
			return (*app).Termbases.Delete(cmd.Context(), id)
		},
	}

	cmd.AddCommand(create, list, del)
	return cmd
}

func languageCmd(app **App) *cobra.Command {
	cmd := &cobra.Command{Use: "language", Short: "Manage termbase languages"}

	add := &cobra.Command{
		Use:  "add TERMBASE_ID CODE",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("termbase id: %w", err)
			}
			l, err := (*app).Termbases.AddLanguage(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("added language %d (%s)\n", l.ID, l.Code)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm LANGUAGE_ID",
		Short: "Remove a language and everything recorded in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("language id: %w", err)
			}
			return (*app).Termbases.RemoveLanguage(cmd.Context(), id)
		},
	}

	list := &cobra.Command{
		Use:  "list TERMBASE_ID",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("termbase id: %w", err)
			}
			langs, err := (*app).Termbases.ListLanguages(cmd.Context(), id)
			if err != nil {
				return err
			}
			for _, l := range langs {
				fmt.Printf("%d\t%s\n", l.ID, l.Code)
			}
			return nil
		},
	}

	cmd.AddCommand(add, rm, list)
	return cmd
}

func searchCmd(app **App) *cobra.Command {
	var termbaseID int64
	var lang string
	cmd := &cobra.Command{
		Use:   "search [TEXT]",
		Short: "List terms matching a free-text filter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTermbase(cmd, *app, termbaseID)
			if err != nil {
				return err
			}
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			terms, err := (*app).Search.Search(cmd.Context(), searchRequest(id, lang, text))
			if err != nil {
				return err
			}
			for _, t := range terms {
				fmt.Printf("%d\t%s\t%s\n", t.ID, t.Lang, t.Lemma)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&termbaseID, "termbase", 0, "termbase id (default: last used)")
	cmd.Flags().StringVar(&lang, "lang", "", "main language code")
	_ = cmd.MarkFlagRequired("lang")
	return cmd
}

func statsCmd(app **App) *cobra.Command {
	var termbaseID int64
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show termbase counts and per-language completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := resolveTermbase(cmd, *app, termbaseID)
			if err != nil {
				return err
			}
			st, err := (*app).Search.Stats(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("entries: %d\nterms: %d\n", st.Entries, st.Terms)
			for lang, n := range st.TermsPerLanguage {
				fmt.Printf("%s: %d terms, %d/%d entries complete\n", lang, n, st.CompletePerLanguage[lang], st.Entries)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&termbaseID, "termbase", 0, "termbase id (default: last used)")
	return cmd
}

func searchRequest(termbaseID int64, lang, text string) apiapp.SearchRequest {
	return apiapp.SearchRequest{TermbaseID: termbaseID, MainLang: lang, Text: text}
}

func resolveTermbase(cmd *cobra.Command, app *App, flag int64) (int64, error) {
	if flag > 0 {
		if err := app.Settings.Set(cmd.Context(), settingLastTermbase, strconv.FormatInt(flag, 10)); err != nil {
			return 0, err
		}
		return flag, nil
	}
	v, err := app.Settings.Get(cmd.Context(), settingLastTermbase)
	if err != nil {
		return 0, err
	}
	if v == "" {
		return 0, fmt.Errorf("no termbase selected: pass --termbase")
	}
	return strconv.ParseInt(v, 10, 64)
}
