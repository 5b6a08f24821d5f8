package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/jeffnmg/green-bin-buddy/internal/config"
)

// Classification est la réponse brute du service de classification.
// Le backend ne valide pas sa justesse, seulement sa présence.
type Classification struct {
	DetectedObject   string `json:"objeto_detectado"`
	DetectedObjectES string `json:"objeto_detectado_espanol"`
	WasteType        string `json:"tipo"`
	Bin              string `json:"caneca"`
	Recyclable       bool   `json:"reciclable"`
	Confidence       *int   `json:"confianza"`
	Advice           string `json:"respuesta"`
}

// ClassifierService appelle le service externe de classification d'images
type ClassifierService struct {
	baseURL string
	client  *http.Client
}

func NewClassifierService(cfg *config.Config) *ClassifierService {
	return &ClassifierService{
		baseURL: strings.TrimRight(cfg.ClassifierURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Classify envoie l'image au classificateur et retourne sa réponse
func (s *ClassifierService) Classify(ctx context.Context, file io.Reader, filename string) (*Classification, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("could not copy image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/clasificar/", &body)
	if err != nil {
		return nil, fmt.Errorf("could not build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var result Classification
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("could not decode classifier response: %w", err)
	}

	if result.DetectedObject == "" {
		result.DetectedObject = result.WasteType
	}
	if result.DetectedObject == "" {
		result.DetectedObject = "objeto"
	}

	return &result, nil
}
