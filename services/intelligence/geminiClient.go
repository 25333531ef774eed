package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"frontdesk/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "models/gemini-1.5-flash"

// GeminiClient asks Gemini to fill the extraction contract in JSON mode.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is empty")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = extractionSchema()

	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// Extract sends the transcript together with the reference timestamp and
// decodes the JSON object the model returns.
func (g *GeminiClient) Extract(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResponse, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(userPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return ParseExtractionResponse([]byte(sb.String()))
}

func extractionSchema() *genai.Schema {
	nullableString := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Nullable: true, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"patientName":     nullableString("Full name of the patient"),
			"dateStr":         nullableString("Appointment date, YYYY-MM-DD"),
			"timeStr":         nullableString("Appointment time, HH:mm 24h"),
			"durationMinutes": {Type: genai.TypeInteger},
			"reason":          nullableString("Reason for the visit"),
			"consultantName":  nullableString("Name of the requested doctor or consultant"),
			"ambiguities": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"durationMinutes", "ambiguities"},
	}
}
