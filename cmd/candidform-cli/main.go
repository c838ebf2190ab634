package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-candidform/pkg/editor"
	"github.com/goliatone/go-candidform/pkg/idl"
	"github.com/goliatone/go-candidform/pkg/model"
	"github.com/goliatone/go-candidform/pkg/orchestrator"
	"github.com/goliatone/go-candidform/pkg/render"
	"github.com/goliatone/go-candidform/pkg/renderers/tui"
	"github.com/goliatone/go-candidform/pkg/trace"
	"github.com/goliatone/go-candidform/pkg/typedoc"
)

func main() {
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("candidform: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		log.Fatalf("candidform: %v", err)
	}
}

func run(ctx context.Context, cfg config, stdout io.Writer) error {
	tracer := trace.Nop()
	if cfg.Verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		tracer = trace.New(logger)
	}

	doc, err := typedoc.LoadFile(cfg.Source)
	if err != nil {
		return err
	}

	options := []orchestrator.Option{
		orchestrator.WithTracer(tracer),
		orchestrator.WithComposerOptions(editor.WithRandom(cfg.Random)),
	}
	if cfg.Preset != "" {
		data, err := os.ReadFile(cfg.Preset)
		if err != nil {
			return fmt.Errorf("read preset: %w", err)
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return err
		}
		options = append(options, orchestrator.WithTransformer(preset))
	}
	if cfg.Locale != "" && len(cfg.Translations) > 0 {
		options = append(options, orchestrator.WithDecorators(render.Localizer{
			Locale:     cfg.Locale,
			Translator: render.MapTranslator(cfg.Translations),
		}))
	}
	gen := orchestrator.New(options...)

	out := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch {
	case cfg.list:
		return listMethods(out, doc)
	case cfg.inspect:
		forms, err := gen.Forms(ctx, orchestrator.Request{Document: doc})
		if err != nil {
			return err
		}
		return writeJSON(out, forms)
	}

	session, err := gen.Prepare(ctx, orchestrator.Request{Document: doc, Method: cfg.Method})
	if err != nil {
		return err
	}
	renderer := tui.New(
		tui.WithPromptDriver(tui.NewSurveyDriver(nil)),
		tui.WithTracer(tracer),
	)
	if err := renderer.Announce(ctx, session.Form); err != nil {
		return err
	}
	args, err := renderer.Run(ctx, session.Composer)
	if err != nil {
		return err
	}
	return writeArgs(out, cfg.Format, session.Form, args)
}

func listMethods(w io.Writer, doc *typedoc.Document) error {
	if _, err := fmt.Fprintf(w, "service %s\n", doc.Service); err != nil {
		return err
	}
	for _, m := range doc.Methods {
		if _, err := fmt.Fprintf(w, "  %s : %s\n", m.Name, m.Func.Name()); err != nil {
			return err
		}
	}
	return nil
}

func writeArgs(w io.Writer, format string, form model.FormModel, args []any) error {
	if format != formatCandid {
		return writeJSON(w, args)
	}
	types := make([]idl.Type, len(form.Fields))
	for i, field := range form.Fields {
		types[i] = field.Source
	}
	text, err := idl.FormatValue(idl.Tuple(types...), args)
	if err != nil {
		return fmt.Errorf("format arguments: %w", err)
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

func writeJSON(w io.Writer, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(payload))
	return err
}
