// Package dispatcher selects a working generative model from an ordered
// fallback list. Each request walks the list once: the first model that
// returns non-blank text wins, every failure is logged and skipped, and
// exhausting the list yields a fixed apology instead of an error.
package dispatcher

import (
	"context"
	"errors"
	"strings"

	"github.com/dkovalev/nutrigenie/internal/genai"
	"github.com/dkovalev/nutrigenie/internal/logging"
)

// AllModelsFailedMessage is returned as the response text when every
// configured model has been attempted without producing usable output.
const AllModelsFailedMessage = "All models failed due to quota or configuration issues. Please try again later."

// Generator issues one generation call against one named model.
// *genai.Client satisfies this; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, model string, prompt string, img *genai.Image) (string, error)
}

// Result is the outcome of one Dispatch call. Model is empty when every
// attempt failed, in which case Text carries AllModelsFailedMessage.
type Result struct {
	Model string
	Text  string
}

// Failed reports whether no model produced usable output.
func (r Result) Failed() bool {
	return r.Model == ""
}

type Dispatcher struct {
	models []string
	gen    Generator
	logger logging.Logger
}

// New builds a Dispatcher over the given model identifiers, tried in order.
func New(models []string, gen Generator, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		models: models,
		gen:    gen,
		logger: logger.With("module", "dispatcher"),
	}
}

// ErrEmptyPrompt is returned before any network call when the prompt is blank.
var ErrEmptyPrompt = errors.New("empty prompt")

// Dispatch tries each configured model once, in order, with the prompt and
// optional image. The first attempt that yields non-blank text ends the walk;
// its trimmed text and model identifier are returned. Per-attempt failures
// (quota, invalid argument, API or unknown errors) never abort the walk and
// never retry the same model. When the list is exhausted, the Result carries
// an empty model and the fixed failure message; the error stays nil.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt string, img *genai.Image) (Result, error) {

	if strings.TrimSpace(prompt) == "" {
		return Result{}, ErrEmptyPrompt
	}

	for _, model := range d.models {
		d.logger.Info(ctx, "trying model", "model", model)

		text, err := d.gen.Generate(ctx, model, prompt, img)
		if err != nil {
			switch {
			case errors.Is(err, genai.ErrQuotaExhausted):
				d.logger.Warn(ctx, "quota exhausted", "model", model)
			case errors.Is(err, genai.ErrInvalidArgument):
				d.logger.Warn(ctx, "invalid argument", "model", model, "error", err.Error())
			case errors.Is(err, genai.ErrAPI):
				d.logger.Warn(ctx, "api error", "model", model, "error", err.Error())
			default:
				d.logger.Error(ctx, "unknown error", "model", model, "error", err.Error())
			}
			continue
		}

		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return Result{Model: model, Text: trimmed}, nil
		}

		d.logger.Warn(ctx, "empty response", "model", model)
	}

	return Result{Text: AllModelsFailedMessage}, nil
}
