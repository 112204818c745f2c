// Package analyzer turns a normalized document into a structured analysis
// record by prompting the resolved external model and validating its reply.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/neurolearn/neurosched/internal/ai"
	"github.com/neurolearn/neurosched/internal/model"
)

var (
	ErrInvalidResponse = errors.New("model response does not match the analysis contract")
	ErrTransport       = errors.New("model call failed")
)

// analysisSchema is the contract the prompt demands from the model. The
// reply is validated against it before anything is returned to the caller.
const analysisSchema = `{
	"type": "object",
	"required": ["summary", "difficulty_score", "estimated_study_time_minutes", "key_concepts", "learning_advice"],
	"properties": {
		"summary": {"type": "string", "minLength": 1},
		"difficulty_score": {"type": "integer", "minimum": 1, "maximum": 10},
		"estimated_study_time_minutes": {"type": "integer", "minimum": 0},
		"key_concepts": {"type": "array", "items": {"type": "string"}, "minItems": 3, "maxItems": 5},
		"learning_advice": {"type": "string"}
	}
}`

var compiledSchema = func() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("analysis.json", strings.NewReader(analysisSchema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("analysis.json")
}()

type Analyzer struct {
	provider      ai.IProvider
	maxInputChars int
	timeout       time.Duration
}

func New(provider ai.IProvider, maxInputChars int, timeout time.Duration) *Analyzer {
	return &Analyzer{
		provider:      provider,
		maxInputChars: maxInputChars,
		timeout:       timeout,
	}
}

// Analyze prompts the given model with the document and parses the reply.
// The same document may yield a different record on retry; callers must
// not assume repeatability.
func (a *Analyzer) Analyze(ctx context.Context, credential string, modelName string, doc model.Document) (*model.AnalysisResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	raw, err := a.provider.Generate(ctx, credential, modelName, a.buildPrompt(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return parseAnalysis(raw)
}

func (a *Analyzer) buildPrompt(doc model.Document) string {
	return fmt.Sprintf(`You are a learning-science expert. Analyze this content for a student. Return strictly VALID JSON:
{
	"summary": "2 sentence summary.",
	"difficulty_score": (integer 1-10; 1 = trivial, 10 = doctoral-level),
	"estimated_study_time_minutes": (integer, realistic for one focused pass),
	"key_concepts": ["Concept1", "Concept2", "Concept3"],
	"learning_advice": "One specific study technique suited to the material's cognitive load."
}
Output ONLY the JSON object. No markdown, no commentary.

CONTENT:
%s`, truncate(doc.Content, a.maxInputChars))
}

// truncate keeps the first limit characters and drops the remainder.
func truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// parseAnalysis accepts the model's free-form text: a strict parse is tried
// first, then a lenient pass that strips fence markup and slices between
// the outermost braces. Whatever survives must still pass the schema.
func parseAnalysis(raw string) (*model.AnalysisResult, error) {
	candidates := []string{strings.TrimSpace(raw)}
	if cleaned := cleanWrapping(raw); cleaned != "" {
		candidates = append(candidates, cleaned)
	}

	var lastErr error
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		result, err := decodeAndValidate(candidate)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("empty response")
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, lastErr)
}

func decodeAndValidate(candidate string) (*model.AnalysisResult, error) {
	var doc any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return nil, err
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, err
	}
	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// cleanWrapping removes conversational wrapping: code fences and any text
// outside the first '{' and the last '}'.
func cleanWrapping(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}
