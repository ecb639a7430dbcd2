package engine

import (
	"context"
	"fmt"

	"github.com/questforge/questforge/internal/images"
	"github.com/questforge/questforge/internal/services"
	"github.com/questforge/questforge/pkg/prompts"
	"github.com/questforge/questforge/pkg/scenario"
)

// Illustration parameters, matching the tuning of the original art
// pipeline.
const (
	illustrationSteps = 25
	illustrationCFG   = 4.5

	negativePrompt = "(worst quality, low quality, normal quality), blurry, ugly, disfigured, watermark, text, signature, plain background"
)

// WithImages enables the decorative illustration pipeline. Without it,
// scenarios are served text-only.
func (e *Engine) WithImages(svc services.ImageService, cache *images.Cache, model string) *Engine {
	e.imageSvc = svc
	e.imageCache = cache
	e.imageModel = model
	return e
}

// ScenarioList generates the adventure premises offered on the start
// screen. A list that fails to parse falls back to one simplified
// single-scenario generation. Illustration failures are logged and
// ignored; images never affect game state.
func (e *Engine) ScenarioList(ctx context.Context) ([]scenario.Scenario, error) {
	raw, err := e.llm.Complete(ctx, prompts.ScenarioList)
	if err != nil {
		return nil, fmt.Errorf("failed to generate scenarios: %w", err)
	}

	scenarios := scenario.ParseList(raw)
	if len(scenarios) == 0 {
		e.logger.Warn("Scenario list parsing produced no results, trying simplified prompt")
		raw, err = e.llm.Complete(ctx, prompts.SimplifiedScenario)
		if err != nil {
			return nil, fmt.Errorf("failed to generate fallback scenario: %w", err)
		}
		scenarios = []scenario.Scenario{scenario.ParseOne(raw)}
	}

	for i := range scenarios {
		e.illustrate(ctx, &scenarios[i])
	}
	return scenarios, nil
}

// illustrate renders and caches one scenario image, best effort.
func (e *Engine) illustrate(ctx context.Context, sc *scenario.Scenario) {
	if e.imageSvc == nil || e.imageCache == nil {
		return
	}

	if e.imageCache.Has(sc.Title) {
		sc.ImageURL = images.StaticPath(sc.Title)
		return
	}

	positive := fmt.Sprintf(
		"Fantasy illustration of a D&D adventure: %s. The setting is %s. The quest involves: %s. High detail, cinematic lighting, dramatic atmosphere.",
		sc.Title, sc.Setting, sc.Plot)

	png, err := e.imageSvc.Render(ctx, services.RenderRequest{
		PositivePrompt: positive,
		NegativePrompt: negativePrompt,
		Model:          e.imageModel,
		Steps:          illustrationSteps,
		CFGScale:       illustrationCFG,
	})
	if err != nil || len(png) == 0 {
		e.logger.Warn("Illustration generation failed", "title", sc.Title, "error", err)
		return
	}

	url, err := e.imageCache.Save(sc.Title, png)
	if err != nil {
		e.logger.Warn("Failed to cache illustration", "title", sc.Title, "error", err)
		return
	}
	sc.ImageURL = url
}
