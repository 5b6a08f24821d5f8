package model

import (
	"time"
)

// Origines possibles d'un scan (enum scan_origin en base)
const (
	ScanOriginWeb      = "web"
	ScanOriginWhatsApp = "whatsapp"
)

// ScanRecord est un événement de classification : une photo, un objet
// détecté, une caneca recommandée. Append-only, jamais modifié après
// insertion.
type ScanRecord struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	DetectedObject   string    `json:"detectedObject"`
	DetectedObjectES string    `json:"detectedObjectEs,omitempty"`
	WasteType        string    `json:"wasteType,omitempty"`
	Bin              string    `json:"bin,omitempty"` // caneca recommandée
	Recyclable       bool      `json:"recyclable"`
	Confidence       *int      `json:"confidence,omitempty"` // 0-100
	PointsAwarded    int       `json:"pointsAwarded"`
	Origin           string    `json:"origin"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
