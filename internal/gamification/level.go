package gamification

// Paliers de niveaux. Chaque palier porte un titre et une identité de
// couleur affichés par le front.
const (
	TierNovato     = "novato"
	TierIntermedio = "intermedio"
	TierAvanzado   = "avanzado"
	TierMaestro    = "maestro"
)

// LevelInfo est dérivé des points courants à chaque lecture, jamais persisté.
type LevelInfo struct {
	Level                 int    `json:"level"`
	Title                 string `json:"title"`
	Tier                  string `json:"tier"`
	Color                 string `json:"color"`
	BorderColor           string `json:"borderColor"`
	BgColor               string `json:"bgColor"`
	TextColor             string `json:"textColor"`
	ProgressToNext        int    `json:"progressToNext"`
	PointsForCurrentLevel int    `json:"pointsForCurrentLevel"`
	PointsForNextLevel    int    `json:"pointsForNextLevel"`
}

// GetLevelInfo calcule le niveau à partir des points cumulés.
// Niveau 1 à 0 point, un niveau tous les 100 points.
func GetLevelInfo(points int) LevelInfo {
	level := points/100 + 1
	progress := points % 100

	info := LevelInfo{
		Level:                 level,
		ProgressToNext:        progress,
		PointsForCurrentLevel: (level - 1) * 100,
		PointsForNextLevel:    level * 100,
	}

	switch {
	case level <= 5:
		info.Tier = TierNovato
		info.Title = "Reciclador Novato"
		info.Color = "hsl(142, 76%, 50%)" // vert clair
		info.BorderColor = "border-green-400"
		info.BgColor = "bg-green-400/20"
		info.TextColor = "text-green-500"
	case level <= 10:
		info.Tier = TierIntermedio
		info.Title = "Eco-Guerrero"
		info.Color = "hsl(158, 64%, 35%)" // vert foncé
		info.BorderColor = "border-green-600"
		info.BgColor = "bg-green-600/20"
		info.TextColor = "text-green-600"
	case level <= 20:
		info.Tier = TierAvanzado
		info.Title = "Guardián Verde"
		info.Color = "hsl(45, 93%, 47%)" // or
		info.BorderColor = "border-yellow-500"
		info.BgColor = "bg-yellow-500/20"
		info.TextColor = "text-yellow-500"
	default:
		info.Tier = TierMaestro
		info.Title = "Maestro del Reciclaje"
		info.Color = "hsl(220, 13%, 70%)" // platine
		info.BorderColor = "border-slate-400"
		info.BgColor = "bg-slate-400/20"
		info.TextColor = "text-slate-400"
	}

	return info
}

// LevelEmoji retourne l'emoji associé à un palier.
func LevelEmoji(tier string) string {
	switch tier {
	case TierNovato:
		return "🌱"
	case TierIntermedio:
		return "🌿"
	case TierAvanzado:
		return "🏆"
	case TierMaestro:
		return "👑"
	}
	return ""
}
