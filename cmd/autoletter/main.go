// Command autoletter is the terminal client for the letter template service:
// upload a .docx template, inspect its extracted field schema, fill the form
// interactively, and download the generated document.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/azeruya/autoletter/internal/config"
	"github.com/azeruya/autoletter/internal/logger"
	"github.com/azeruya/autoletter/pkg/api"
	"github.com/azeruya/autoletter/pkg/catalog"
	"github.com/azeruya/autoletter/pkg/contract"
	"github.com/azeruya/autoletter/pkg/form"
	"github.com/azeruya/autoletter/pkg/render"
	htmlrenderer "github.com/azeruya/autoletter/pkg/renderers/html"
	tuirenderer "github.com/azeruya/autoletter/pkg/renderers/tui"
	"github.com/azeruya/autoletter/pkg/schema"
	"github.com/azeruya/autoletter/pkg/workflow"
)

const usage = `usage: autoletter <command> [flags]

commands:
  health     check service liveness
  list       list registered templates with catalog stats
  upload     upload a .docx template
  show       show one template and its field schema
  delete     delete a template
  generate   fill a template's form interactively and download the document
  render     render a local schema file as an HTML form
  contract   verify the backend's OpenAPI document against this client
`

type app struct {
	cfg     *config.Config
	log     *zap.Logger
	client  *api.Client
	confirm func(ctx context.Context, message string) (bool, error)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg)
	defer log.Sync()

	warnings, err := cfg.Validate()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	prompts := tuirenderer.NewPromptDriver()
	a := &app{
		cfg:    cfg,
		log:    log,
		client: api.NewClient(cfg.BaseURL, api.WithTimeout(cfg.Timeout)),
		confirm: func(ctx context.Context, message string) (bool, error) {
			return prompts.Confirm(ctx, tuirenderer.ConfirmConfig{Message: message})
		},
	}

	ctx := context.Background()
	args := os.Args[2:]

	switch os.Args[1] {
	case "health":
		err = a.health(ctx)
	case "list":
		err = a.list(ctx)
	case "upload":
		err = a.upload(ctx, args)
	case "show":
		err = a.show(ctx, args)
	case "delete":
		err = a.delete(ctx, args)
	case "generate":
		err = a.generate(ctx, args)
	case "render":
		err = a.render(ctx, args)
	case "contract":
		err = a.contract(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) health(ctx context.Context) error {
	status, err := a.client.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", status.Status, a.cfg.BaseURL)
	return nil
}

func (a *app) list(ctx context.Context) error {
	cat := catalog.New(a.client)
	templates, err := cat.Refresh(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tFIELDS\tCREATED")
	for _, tpl := range templates {
		created := "-"
		if tpl.CreatedAt != nil {
			created = tpl.CreatedAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", tpl.ID, tpl.Name, tpl.Category, tpl.FieldCount, created)
	}
	w.Flush()

	stats := cat.Stats()
	fmt.Printf("\n%d templates, %d added this week, %d categories\n", stats.Total, stats.Recent, stats.Categories)
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	file := fs.String("file", "", "path to the .docx template (required)")
	name := fs.String("name", "", "display name (defaults to the filename server-side)")
	category := fs.String("category", "", "template category (default general)")
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("upload: -file is required")
	}

	navigated := make(chan int, 1)
	w := workflow.NewUpload(a.client,
		workflow.WithUploadLogger(a.log),
		workflow.WithNavigationDelay(0),
		workflow.WithNavigate(func(id int) { navigated <- id }),
	)
	defer w.Close()

	if err := w.Select(*file); err != nil {
		return err
	}
	if err := w.Start(ctx, *name, *category); err != nil {
		return err
	}

	result := w.Result()
	fmt.Printf("uploaded %q as template %d (%d fields)\n", result.Name, result.TemplateID, result.FieldCount)
	if result.Message != "" {
		fmt.Println(result.Message)
	}
	if id := <-navigated; id > 0 {
		fmt.Printf("next: autoletter generate -id %d\n", id)
	}
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.Int("id", 0, "template id (required)")
	fs.Parse(args)
	if *id <= 0 {
		return fmt.Errorf("show: -id is required")
	}

	tpl, err := a.client.GetTemplate(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Printf("%s (id %d, category %s, %d fields)\n", tpl.Name, tpl.ID, tpl.Category, tpl.FieldCount)
	if tpl.Schema == nil {
		return nil
	}
	for _, section := range tpl.Schema.Sections {
		fmt.Printf("\n%s\n", section.Title)
		for _, field := range section.Fields {
			required := ""
			if field.Required {
				required = " (required)"
			}
			fmt.Printf("  %-20s %s%s\n", field.Name, field.Type, required)
		}
	}
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int("id", 0, "template id (required)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	fs.Parse(args)
	if *id <= 0 {
		return fmt.Errorf("delete: -id is required")
	}

	if !*yes {
		ok, err := a.confirm(ctx, fmt.Sprintf("Delete template %d?", *id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("delete aborted")
			return nil
		}
	}

	message, err := a.client.DeleteTemplate(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func (a *app) generate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	id := fs.Int("id", 0, "template id (required)")
	out := fs.String("out", "", "download directory (default from config)")
	fs.Parse(args)
	if *id <= 0 {
		return fmt.Errorf("generate: -id is required")
	}

	tpl, err := a.client.GetTemplate(ctx, *id)
	if err != nil {
		return err
	}
	if tpl.Schema == nil {
		return fmt.Errorf("generate: template %d carries no schema", *id)
	}

	f, err := form.New(*tpl.Schema)
	if err != nil {
		return err
	}

	prompter, err := tuirenderer.New()
	if err != nil {
		return err
	}
	fmt.Printf("Filling %q (%d fields)\n", tpl.Name, tpl.FieldCount)
	if _, err := prompter.Collect(ctx, f, render.Options{Title: tpl.Name}); err != nil {
		return err
	}

	dir := *out
	if dir == "" {
		dir = a.cfg.DownloadDir
	}
	gen := workflow.NewGeneration(a.client, workflow.DirSink{Dir: dir}, tpl.ID, tpl.Name, f,
		workflow.WithGenerationLogger(a.log))
	if err := gen.Generate(ctx); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", gen.SavedPath())
	return nil
}

func (a *app) render(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema file, JSON or YAML (required)")
	rendererName := fs.String("renderer", "html", "renderer to use")
	title := fs.String("title", "", "form title")
	output := fs.String("output", "", "output file (stdout if empty)")
	fs.Parse(args)
	if *schemaPath == "" {
		return fmt.Errorf("render: -schema is required")
	}

	s, err := schema.FromFile(*schemaPath)
	if err != nil {
		return err
	}
	f, err := form.New(s)
	if err != nil {
		return err
	}

	registry := render.NewRegistry()
	htmlr, err := htmlrenderer.New()
	if err != nil {
		return err
	}
	if err := registry.Register(htmlr); err != nil {
		return err
	}

	renderer, err := registry.Get(*rendererName)
	if err != nil {
		return fmt.Errorf("render: unknown renderer %q (have %s)", *rendererName, strings.Join(registry.List(), ", "))
	}

	markup, err := renderer.Render(ctx, f, render.Options{Title: *title})
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, markup, 0o644); err != nil {
			return fmt.Errorf("render: write output: %w", err)
		}
		fmt.Printf("form written to %s\n", *output)
		return nil
	}
	fmt.Println(string(markup))
	return nil
}

func (a *app) contract(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contract", flag.ExitOnError)
	source := fs.String("source", "", "OpenAPI document path or URL (default <base-url>/openapi.json)")
	fs.Parse(args)

	location := *source
	if location == "" {
		location = strings.TrimRight(a.cfg.BaseURL, "/") + "/openapi.json"
	}

	report, err := contract.Check(ctx, location)
	if err != nil {
		return err
	}
	if report.OK() {
		fmt.Printf("contract satisfied: %d endpoints declared\n", len(contract.Required()))
		return nil
	}
	for _, missing := range report.Missing {
		fmt.Printf("missing: %s\n", missing)
	}
	return fmt.Errorf("contract: %d required endpoint(s) missing", len(report.Missing))
}
