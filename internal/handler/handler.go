package handler

import (
	"net/http"

	"github.com/jeffnmg/green-bin-buddy/internal/gamification"
	"github.com/jeffnmg/green-bin-buddy/internal/services"
	"github.com/jeffnmg/green-bin-buddy/internal/utils"
)

// Services partagés par les handlers, initialisés dans main.
// Uploads et Chat peuvent rester nil si leur configuration est absente :
// les routes correspondantes dégradent proprement.
var (
	Gamification *gamification.Service
	Classifier   *services.ClassifierService
	Chat         *services.GroqService
	Uploads      *services.CloudinaryService
)

func Init(g *gamification.Service, c *services.ClassifierService, chat *services.GroqService, up *services.CloudinaryService) {
	Gamification = g
	Classifier = c
	Chat = chat
	Uploads = up
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "ok")
}
