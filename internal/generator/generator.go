package generator

import (
	"context"
	"fmt"
	"strings"

	"whiskyai/internal/flavor"
	"whiskyai/internal/logger"
	"whiskyai/internal/openai"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 500
)

// ChatCompleter is the slice of the OpenAI client the generators need.
type ChatCompleter interface {
	Chat(ctx context.Context, request openai.ChatRequest) (*openai.ChatResponse, error)
}

// Generation is a successful description generation: the text plus the raw
// exchange that produced it.
type Generation struct {
	Content string       `json:"content"`
	Debug   openai.Debug `json:"debug"`
}

// CategoryGeneration is a successful category generation: the matched
// categories, the raw model output they were parsed from, and the exchange.
type CategoryGeneration struct {
	Categories []flavor.Category `json:"categories"`
	RawText    string            `json:"raw_text"`
	Debug      openai.Debug      `json:"debug"`
}

// DescriptionGenerator produces three-sentence whisky descriptions.
type DescriptionGenerator struct {
	chat   ChatCompleter
	logger *logger.Logger
}

func NewDescriptionGenerator(chat ChatCompleter, log *logger.Logger) *DescriptionGenerator {
	return &DescriptionGenerator{
		chat:   chat,
		logger: log,
	}
}

func (g *DescriptionGenerator) Generate(ctx context.Context, productName, systemPrompt, model string) (*Generation, error) {
	g.logger.Debug("Generating description for product: %s", productName)

	request := openai.ChatRequest{
		Model:       model,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
		Messages: []openai.Message{
			{
				Role:    "system",
				Content: systemPrompt,
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Do not start the sentence with 'The Whisky'. Give me three sentences to describe the Whisky %s", productName),
			},
		},
	}

	response, err := g.chat.Chat(ctx, request)
	if err != nil {
		return nil, err
	}

	return &Generation{
		Content: strings.TrimSpace(response.Content),
		Debug:   response.Debug,
	}, nil
}

// CategoryGenerator asks the model for matching flavor categories and parses
// the reply against the fixed category table.
type CategoryGenerator struct {
	chat   ChatCompleter
	mapper *flavor.Mapper
	logger *logger.Logger
}

func NewCategoryGenerator(chat ChatCompleter, mapper *flavor.Mapper, log *logger.Logger) *CategoryGenerator {
	return &CategoryGenerator{
		chat:   chat,
		mapper: mapper,
		logger: log,
	}
}

func (g *CategoryGenerator) Generate(ctx context.Context, productName, systemPrompt, model string) (*CategoryGeneration, error) {
	g.logger.Debug("Generating categories for product: %s", productName)

	request := openai.ChatRequest{
		Model:       model,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
		Messages: []openai.Message{
			{
				Role:    "system",
				Content: systemPrompt,
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("List the flavor categories that match this whisky: %s. Only use the allowed categories.", productName),
			},
		},
	}

	response, err := g.chat.Chat(ctx, request)
	if err != nil {
		return nil, err
	}

	categories := g.mapper.Parse(response.Content)
	g.logger.Debug("Parsed %d categories for product %s", len(categories), productName)

	return &CategoryGeneration{
		Categories: categories,
		RawText:    response.Content,
		Debug:      response.Debug,
	}, nil
}
