package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// Gemini implements the Generator interface on the Google GenAI SDK. It
// requests JSON output constrained by the request schema.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini provider from GEMINI_API_KEY (or
// GOOGLE_API_KEY).
func NewGemini(model string) (*Gemini, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	if key == "" {
		return nil, &ConfigError{Provider: "gemini", Setting: "GEMINI_API_KEY (or GOOGLE_API_KEY)"}
	}
	return newGemini(key, model, os.Getenv("HOODSCAN_GEMINI_BASE_URL"))
}

func newGemini(apiKey, model, baseURL string) (*Gemini, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("creating GenAI client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string  { return "gemini" }
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Generate(ctx context.Context, req Request) (Response, error) {
	contents := make([]*genai.Content, 0, len(req.Parts))
	for _, p := range req.Parts {
		contents = append(contents, genai.NewContentFromText(p, genai.RoleUser))
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(defaultMaxTokens(req.MaxTokens)),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenAISchema(req.Schema)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return Response{}, classifyGenAIError(err)
	}
	if len(result.Candidates) == 0 {
		return Response{}, fmt.Errorf("no candidates in response")
	}

	content := result.Text()
	if strings.TrimSpace(content) == "" {
		return Response{}, fmt.Errorf("empty text content in API response")
	}

	var tokens int
	if result.UsageMetadata != nil {
		tokens = int(result.UsageMetadata.TotalTokenCount)
	}
	return Response{Content: content, TokensUsed: tokens}, nil
}

func classifyGenAIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.Code, []byte(apiErr.Message))
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return statusError(apiErrPtr.Code, []byte(apiErrPtr.Message))
	}
	return fmt.Errorf("sending request: %w", err)
}

var genaiTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"array":   genai.TypeArray,
	"string":  genai.TypeString,
	"integer": genai.TypeInteger,
	"number":  genai.TypeNumber,
	"boolean": genai.TypeBoolean,
}

func toGenAISchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:             genaiTypes[s.Type],
		Description:      s.Description,
		Required:         s.Required,
		Enum:             s.Enum,
		PropertyOrdering: s.Ordering,
		Items:            toGenAISchema(s.Items),
	}
	if len(s.Enum) > 0 && s.Type == "string" {
		out.Format = "enum"
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = toGenAISchema(v)
		}
	}
	return out
}
