package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/auto-site/internal/config"
	"github.com/ziadkadry99/auto-site/internal/llm"
	"github.com/ziadkadry99/auto-site/internal/progress"
	"github.com/ziadkadry99/auto-site/internal/project"
)

// ErrNoFiles is returned when generation yields nothing to save.
var ErrNoFiles = errors.New("generation produced no files")

var validate = validator.New()

// Generator runs the generation stages against an LLM provider.
type Generator struct {
	provider llm.Provider
	tier     config.QualityTier
	model    string
	log      *zerolog.Logger
	reporter progress.Reporter

	// Usage accumulates tokens and cost over every completion.
	Usage llm.Usage
}

// NewGenerator creates a Generator. The lite tier skips the code
// generation stage and returns the scaffold. A nil log or reporter
// disables that output.
func NewGenerator(provider llm.Provider, tier config.QualityTier, model string, log *zerolog.Logger, reporter progress.Reporter) *Generator {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	if reporter == nil {
		reporter = progress.Nop{}
	}
	return &Generator{
		provider: provider,
		tier:     tier,
		model:    model,
		log:      log,
		reporter: reporter,
	}
}

// Generate produces the files of a site for b.
func (g *Generator) Generate(ctx context.Context, b Briefing, c Context) ([]project.File, error) {
	if err := validate.Struct(b); err != nil {
		return nil, fmt.Errorf("invalid briefing: %w", err)
	}

	stages := 3
	if g.tier == config.QualityLite {
		stages = 2
	}
	g.reporter.Start(stages)
	defer g.reporter.Finish()

	g.reporter.Update(0, "design analysis")
	plan, err := g.analyze(ctx, b, c)
	if err != nil {
		return nil, err
	}
	g.log.Info().Str("site", plan.Name).Int("pages", len(plan.Pages)).Msg("site planned")

	g.reporter.Update(1, "scaffold")
	files, err := Scaffold(plan)
	if files == nil {
		return nil, err
	}
	if err != nil {
		g.log.Warn().Err(err).Msg("some sections could not be rendered")
	}

	if g.tier != config.QualityLite {
		g.reporter.Update(2, "code generation")
		generated, err := g.codegen(ctx, b, plan, files, c)
		switch {
		case err == nil:
			files = merge(files, generated)
		case errors.Is(err, errUnparsable):
			g.log.Warn().Err(err).Msg("code generation output unusable, keeping scaffold")
		default:
			return nil, err
		}
	}
	g.reporter.Update(stages, "done")

	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	return files, nil
}

var errUnparsable = errors.New("unparsable model output")

func (g *Generator) analyze(ctx context.Context, b Briefing, c Context) (*SitePlan, error) {
	resp, err := g.complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    buildDesignMessages(b, c),
		MaxTokens:   4096,
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("design analysis: %w", err)
	}
	plan, err := parsePlan(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("design analysis: %w: %w", errUnparsable, err)
	}
	if plan.Name == "" {
		plan.Name = b.BusinessName
	}
	return plan, nil
}

func (g *Generator) codegen(ctx context.Context, b Briefing, plan *SitePlan, scaffold []project.File, c Context) ([]project.File, error) {
	temperature := 0.5
	if g.tier == config.QualityMax {
		temperature = 0.7
	}
	resp, err := g.complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    buildCodegenMessages(b, plan, scaffold, c),
		MaxTokens:   llm.DefaultMaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("code generation: %w", err)
	}
	files, err := parseFiles(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("code generation: %w: %w", errUnparsable, err)
	}
	return files, nil
}

func (g *Generator) complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := g.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	g.Usage.Add(resp)
	return resp, nil
}

// FileReplacer persists a whole file set for a project.
type FileReplacer interface {
	ReplaceFiles(ctx context.Context, projectID string, files []project.File) error
}

// Regenerate generates a site for b and replaces the project's files with
// the result. Nothing is written when generation fails.
func Regenerate(ctx context.Context, g *Generator, store FileReplacer, projectID string, b Briefing, c Context) ([]project.File, error) {
	files, err := g.Generate(ctx, b, c)
	if err != nil {
		return nil, err
	}
	if err := store.ReplaceFiles(ctx, projectID, files); err != nil {
		return nil, fmt.Errorf("saving generated files: %w", err)
	}
	return files, nil
}
