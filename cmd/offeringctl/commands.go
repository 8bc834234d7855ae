package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"usdl-offering/db"
	"usdl-offering/decision/graph"
	"usdl-offering/decision/pricing"
	"usdl-offering/decision/usdl"
	oerrors "usdl-offering/pkg/errors"
	"usdl-offering/pkg/platform"
	"usdl-offering/pkg/units"
)

var extensionContentTypes = map[string]string{
	".ttl":    "text/turtle",
	".n3":     "text/n3",
	".rdf":    "application/rdf+xml",
	".xml":    "application/rdf+xml",
	".owl":    "application/rdf+xml",
	".nt":     "application/n-triples",
	".jsonld": "application/ld+json",
	".json":   "application/ld+json",
}

// contentTypeFor returns override when set, otherwise guesses from the file extension.
func contentTypeFor(path, override string) string {
	if override != "" {
		return override
	}
	if ct, ok := extensionContentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return "text/turtle"
}

func contentTypeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "content-type",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Document content type (%s); guessed from the extension when empty", strings.Join(graph.SupportedContentTypes(), ", ")),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "table",
		Usage:   "Output format (table, json)",
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// PARSE COMMAND
// =============================================================================

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:  "parse",
		Usage: "Parse an offering description and print its structure",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"i"},
				Usage:    "Path to the offering description",
				Required: true,
			},
			contentTypeFlag(),
			formatFlag(),
		},
		Action: runParse,
	}
}

func runParse(c *cli.Context) error {
	ctx := commandContext(c)
	path := c.String("file")

	offering, err := usdl.NewParser().ParseFile(ctx, path, contentTypeFor(path, c.String("content-type")))
	if err != nil {
		platform.RecordDocument("parse", false)
		platform.RecordViolation(errorReason(err))
		return err
	}
	platform.RecordDocument("parse", true)

	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, offering)
	}
	printOffering(c.App.Writer, offering)
	return nil
}

func printOffering(w io.Writer, o *usdl.Offering) {
	fmt.Fprintf(w, "Offering: %s\n", o.Pricing.Title)
	fmt.Fprintf(w, "Services (%d):\n", len(o.Services))
	for _, s := range o.Services {
		fmt.Fprintf(w, "  - %s %s\n", s.Name, s.Version)
		if s.ShortDescription != "" {
			fmt.Fprintf(w, "    %s\n", s.ShortDescription)
		}
		if s.Vendor != "" {
			fmt.Fprintf(w, "    vendor: %s\n", s.Vendor)
		}
		fmt.Fprintf(w, "    legal: %d  sla: %d  interactions: %d\n", len(s.Legal), len(s.SLA), len(s.Interactions))
	}
	fmt.Fprintf(w, "Price plans (%d):\n", len(o.Pricing.PricePlans))
	for _, p := range o.Pricing.PricePlans {
		label := p.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(w, "  - %s [%s]\n", p.Title, label)
		printComponents(w, "component", p.PriceComponents)
		printComponents(w, "deduction", p.Deductions)
		printComponents(w, "tax", p.Taxes)
	}
}

func printComponents(w io.Writer, kind string, comps []usdl.PriceComponent) {
	for _, pc := range comps {
		fn := ""
		if pc.Function != nil {
			fn = " (price function)"
		}
		fmt.Fprintf(w, "      %-9s %-30s %s %s %s%s\n", kind, truncate(pc.Title, 30), pc.Value, pc.Currency, pc.Unit, fn)
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// =============================================================================
// VALIDATE COMMAND
// =============================================================================

func validateCommand() *cli.Command {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "Validate offering descriptions against the pricing rules",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "context",
				Aliases:  []string{"c"},
				Usage:    "Path to the validation context YAML",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Validate as an open offering",
			},
			&cli.StringFlag{
				Name:  "org",
				Usage: "Organization owning the offering, overrides the context file",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Offering name, overrides the context file",
			},
			&cli.BoolFlag{
				Name:    "record",
				Usage:   "Record valid offerings in the version store",
				EnvVars: []string{"OFFERING_RECORD"},
			},
			&cli.IntFlag{
				Name:    "jobs",
				Value:   4,
				Usage:   "Documents validated concurrently",
				EnvVars: []string{"OFFERING_JOBS"},
			},
			contentTypeFlag(),
			formatFlag(),
		},
		Action: runValidate,
	}
	cmd.Flags = append(cmd.Flags, storeFlags()...)
	return cmd
}

// report is the validation outcome of one document
type report struct {
	ID           uuid.UUID `json:"id"`
	File         string    `json:"file"`
	Valid        bool      `json:"valid"`
	Message      string    `json:"message,omitempty"`
	Rule         string    `json:"rule,omitempty"`
	PriorVersion bool      `json:"prior_version"`
	Recorded     bool      `json:"recorded"`
}

type validateOptions struct {
	vctx        pricing.Context
	contentType string
	record      bool
	jobs        int
}

func runValidate(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one offering file is required")
	}

	vctx, err := platform.LoadValidationContext(c.String("context"))
	if err != nil {
		return err
	}
	if c.IsSet("open") {
		vctx.Open = c.Bool("open")
	}
	if org := c.String("org"); org != "" {
		vctx.Organization = org
	}
	if name := c.String("name"); name != "" {
		vctx.Name = name
	}

	store, closeStore, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := validateOptions{
		vctx:        *vctx,
		contentType: c.String("content-type"),
		record:      c.Bool("record"),
		jobs:        c.Int("jobs"),
	}
	reports, err := validateFiles(commandContext(c), store, c.Args().Slice(), opts)
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		if err := writeJSON(c.App.Writer, reports); err != nil {
			return err
		}
	} else {
		printReports(c.App.Writer, reports)
	}

	rejected := 0
	for _, r := range reports {
		if !r.Valid {
			rejected++
		}
	}
	if rejected > 0 {
		// the exit handler terminates the process before After runs
		if err := writeMetrics(c); err != nil {
			return err
		}
		return cli.Exit(fmt.Sprintf("%d of %d offerings rejected", rejected, len(reports)), ExitRejected)
	}
	return nil
}

// validateFiles validates every file concurrently, then records the valid
// ones in file order. Rule violations are reported; I/O and store failures
// abort the run.
func validateFiles(ctx context.Context, store db.VersionLookup, files []string, opts validateOptions) ([]report, error) {
	logger := zerolog.Ctx(ctx)
	engine := pricing.NewEngine()

	vctx := opts.vctx
	prior, err := store.HasPriorVersion(ctx, vctx.Organization, vctx.Name)
	if err != nil {
		return nil, err
	}
	vctx.PriorVersionExists = prior

	reports := make([]report, len(files))
	results := make([]pricing.Result, len(files))
	documents := make([][]byte, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for i, path := range files {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read offering file: %w", err)
			}

			start := time.Now()
			result := engine.ValidateDocument(gctx, data, contentTypeFor(path, opts.contentType), vctx)
			platform.ObserveValidation(time.Since(start).Seconds())
			platform.RecordDocument("validate", result.Valid)
			if !result.Valid {
				platform.RecordViolation(errorReason(result.Err()))
				logger.Info().Str("file", path).Str("rule", result.Rule).Msg(result.Message)
			}

			documents[i] = data
			results[i] = result
			reports[i] = report{
				ID:           uuid.New(),
				File:         path,
				Valid:        result.Valid,
				Message:      result.Message,
				Rule:         result.Rule,
				PriorVersion: prior,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !opts.record {
		return reports, nil
	}
	for i := range reports {
		if !reports[i].Valid {
			continue
		}
		v := db.NewOfferingVersion(vctx.Organization, vctx.Name, offeringVersion(results[i].Offering), vctx.Open, documents[i])
		v.ID = reports[i].ID
		if err := store.RecordVersion(ctx, v); err != nil {
			return nil, fmt.Errorf("failed to record %s: %w", reports[i].File, err)
		}
		reports[i].Recorded = true
	}
	return reports, nil
}

// offeringVersion is the version of the single included service.
func offeringVersion(o *usdl.Offering) string {
	if o == nil || len(o.Services) == 0 {
		return ""
	}
	return o.Services[0].Version
}

// errorReason labels a failure by its rule, or by its error kind.
func errorReason(err error) string {
	var oe *oerrors.OfferingError
	if errors.As(err, &oe) {
		if oe.Rule != "" {
			return oe.Rule
		}
		return oe.Kind.String()
	}
	return "io"
}

func printReports(w io.Writer, reports []report) {
	for _, r := range reports {
		status := "VALID"
		if !r.Valid {
			status = "INVALID"
		}
		fmt.Fprintf(w, "%-8s %s\n", status, r.File)
		if r.Message != "" {
			fmt.Fprintf(w, "         %s\n", r.Message)
		}
		if r.Recorded {
			fmt.Fprintf(w, "         recorded as %s\n", r.ID)
		}
	}
}

// =============================================================================
// FUNCTION COMMAND
// =============================================================================

func functionCommand() *cli.Command {
	return &cli.Command{
		Name:  "function",
		Usage: "Parse the price functions of a document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"i"},
				Usage:    "Path to the RDF document",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "node",
				Usage: "IRI of the function node; every declared function when empty",
			},
			contentTypeFlag(),
		},
		Action: runFunction,
	}
}

func runFunction(c *cli.Context) error {
	ctx := commandContext(c)
	path := c.String("file")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	g, err := usdl.NewParser().Load(ctx, data, contentTypeFor(path, c.String("content-type")))
	if err != nil {
		return err
	}

	nodes := usdl.FunctionNodes(g)
	if iri := c.String("node"); iri != "" {
		nodes = []graph.Term{graph.IRI(iri)}
	}
	if len(nodes) == 0 {
		return fmt.Errorf("no price function found in %s", path)
	}

	functions := make(map[string]*usdl.PriceFunction, len(nodes))
	for _, node := range nodes {
		fn, err := usdl.ParseFunction(g, node)
		if err != nil {
			return fmt.Errorf("%s: %w", node.Value, err)
		}
		functions[node.Value] = fn
	}
	return writeJSON(c.App.Writer, functions)
}

// =============================================================================
// UNITS COMMAND
// =============================================================================

func unitsCommand() *cli.Command {
	return &cli.Command{
		Name:  "units",
		Usage: "List the accepted price component units",
		Action: func(c *cli.Context) error {
			for _, u := range units.Allowed() {
				fmt.Fprintln(c.App.Writer, u)
			}
			return nil
		},
	}
}
