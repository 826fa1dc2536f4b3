package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/agendia-app/agendia/internal/domain/intent"
	"github.com/agendia-app/agendia/internal/timezone"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-flash"
	defaultTimeout = 60 * time.Second
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Service interpreta comandos em linguagem natural (texto ou áudio) via
// Gemini, pedindo resposta em JSON no schema de intenção.
type Service struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func New(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: GEMINI_API_KEY é obrigatória")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Service{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// ======================================================
// InterpretCommand
// ======================================================

// InterpretCommand devolve UNKNOWN com confiança 0 quando a IA falha, em vez
// de erro: falha de interpretação não é falha de pipeline.
func (s *Service) InterpretCommand(ctx context.Context, in intent.Input) (*intent.Intent, error) {
	raw, err := s.generate(ctx, in)
	if err != nil {
		log.Println("gemini: falha ao interpretar comando:", err)
		return unknownIntent(in, "Erro ao processar comando com IA"), nil
	}

	it, err := parseIntent(raw)
	if err != nil {
		log.Println("gemini: resposta fora do schema:", err)
		return unknownIntent(in, "Erro ao processar comando com IA"), nil
	}

	return it, nil
}

func (s *Service) generate(ctx context.Context, in intent.Input) ([]byte, error) {
	var parts []map[string]any
	if in.IsAudio() {
		if in.MimeType == "" {
			return nil, fmt.Errorf("mime type é obrigatório para áudio")
		}
		parts = append(parts, map[string]any{
			"inline_data": map[string]any{
				"mime_type": in.MimeType,
				"data":      base64.StdEncoding.EncodeToString(in.Audio),
			},
		})
	} else {
		parts = append(parts, map[string]any{"text": in.Text})
	}

	payload := map[string]any{
		"system_instruction": map[string]any{
			"parts": []map[string]any{{"text": systemPrompt(timezone.Now())}},
		},
		"contents": []map[string]any{
			{"role": "user", "parts": parts},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"temperature":      0.3,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini retornou status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("resposta sem candidatos")
	}

	return []byte(out.Candidates[0].Content.Parts[0].Text), nil
}

// ======================================================
// Parsing do schema de intenção
// ======================================================

type wireIntent struct {
	Type       string          `json:"type"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Confidence float64         `json:"confidence"`
	RawText    string          `json:"rawText"`
}

func parseIntent(raw []byte) (*intent.Intent, error) {
	var w wireIntent
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}

	it := &intent.Intent{
		Type:       intent.Type(w.Type),
		Confidence: clamp(w.Confidence),
		RawText:    w.RawText,
		Message:    w.Message,
	}

	switch it.Type {
	case intent.TypeSchedule:
		var d struct {
			Title       string    `json:"title"`
			Start       time.Time `json:"start"`
			End         time.Time `json:"end"`
			Description string    `json:"description"`
			Location    string    `json:"location"`
			Attendees   []string  `json:"attendees"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		it.Schedule = &intent.ScheduleData{
			Title:       d.Title,
			Start:       d.Start,
			End:         d.End,
			Description: d.Description,
			Location:    d.Location,
			Attendees:   d.Attendees,
		}

	case intent.TypeReschedule:
		var d struct {
			AppointmentID string    `json:"appointmentId"`
			NewStart      time.Time `json:"newStart"`
			NewEnd        time.Time `json:"newEnd"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		it.Reschedule = &intent.RescheduleData{
			AppointmentID: d.AppointmentID,
			NewStart:      d.NewStart,
			NewEnd:        d.NewEnd,
		}

	case intent.TypeCancel:
		var d struct {
			AppointmentID string `json:"appointmentId"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		it.Cancel = &intent.CancelData{AppointmentID: d.AppointmentID}

	case intent.TypeList:
		var d struct {
			Start *time.Time `json:"start"`
			End   *time.Time `json:"end"`
		}
		if len(w.Data) > 0 {
			if err := json.Unmarshal(w.Data, &d); err != nil {
				return nil, err
			}
		}
		it.List = &intent.ListData{Start: d.Start, End: d.End}

	case intent.TypeUnknown:
		// só a mensagem explicativa

	default:
		// tipo fora do modelo fechado: deixamos passar com o tag cru e o
		// orquestrador cai na rede de segurança
	}

	return it, nil
}

func unknownIntent(in intent.Input, message string) *intent.Intent {
	rawText := in.Text
	if in.IsAudio() {
		rawText = "<audio>"
	}

	return &intent.Intent{
		Type:       intent.TypeUnknown,
		Confidence: 0,
		RawText:    rawText,
		Message:    message,
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ intent.Interpreter = (*Service)(nil)
