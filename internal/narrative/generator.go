package narrative

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/smallbiznis/workforcekpi/internal/config"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/smallbiznis/workforcekpi/internal/observability/metrics"
	obstracing "github.com/smallbiznis/workforcekpi/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultModel        = "gpt-4o-mini"
	temperature         = 0.7
	maxCompletionTokens = 2000
	requestTimeout      = 60 * time.Second
	maxParallel         = 4
)

var errEmptyCompletion = errors.New("empty completion")

// Completer answers a single chat prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type openAICompleter struct {
	client *openai.Client
	model  string
}

func (c *openAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature:         temperature,
		MaxCompletionTokens: maxCompletionTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// Generator writes the narrative sections of a report. It never fails:
// sections that cannot be generated get fallback text.
type Generator struct {
	completer Completer
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func New(p Params) *Generator {
	g := &Generator{log: p.Log.Named("narrative"), metrics: p.Metrics}

	apiKey := strings.TrimSpace(p.Config.OpenAI.APIKey)
	if apiKey == "" {
		g.log.Info("openai api key not set, narrative sections use fallback text")
		return g
	}

	cfg := openai.DefaultConfig(apiKey)
	if p.Config.OpenAI.BaseURL != "" {
		cfg.BaseURL = p.Config.OpenAI.BaseURL
	}
	cfg.HTTPClient = obstracing.WrapHTTPClient(&http.Client{Timeout: requestTimeout})

	model := strings.TrimSpace(p.Config.OpenAI.Model)
	if model == "" {
		model = defaultModel
	}
	g.completer = &openAICompleter{client: openai.NewClientWithConfig(cfg), model: model}
	return g
}

// NewWithCompleter builds a generator around an existing completer.
func NewWithCompleter(c Completer, log *zap.Logger) *Generator {
	return &Generator{completer: c, log: log}
}

// Generate produces every section concurrently.
func (g *Generator) Generate(ctx context.Context, current kpidomain.Data, historical *kpidomain.Data) Sections {
	keys := SectionKeys()
	texts := make([]string, len(keys))

	var hist any
	if historical != nil {
		hist = historical
	}

	var eg errgroup.Group
	eg.SetLimit(maxParallel)
	for i, key := range keys {
		i, key := i, key
		eg.Go(func() error {
			texts[i] = g.section(ctx, key, current, hist)
			return nil
		})
	}
	_ = eg.Wait()

	out := make(Sections, len(keys))
	for i, key := range keys {
		out[key] = texts[i]
	}
	return out
}

func (g *Generator) section(ctx context.Context, key string, current kpidomain.Data, historical any) string {
	if g.completer == nil {
		g.metrics.RecordNarrativeFallback(ctx, key)
		return Fallback(key)
	}

	text, err := g.completer.Complete(ctx, systemPrompt, BuildPrompt(key, current, historical))
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		if err != nil {
			g.log.Warn("narrative section failed", zap.String("section", key), zap.Error(obstracing.SafeError(err)))
		}
		g.metrics.RecordNarrativeFallback(ctx, key)
		return Fallback(key)
	}
	return text
}
