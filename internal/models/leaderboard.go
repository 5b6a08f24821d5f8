package model

type LeaderboardEntry struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	Rank           int    `json:"rank"`
	Points         int    `json:"points"`
	ObjectsScanned int    `json:"objectsScanned"`
	CurrentStreak  int    `json:"currentStreak"`
	MaxStreak      int    `json:"maxStreak"`
	Score          int    `json:"score"` // valeur de la métrique du classement demandé
}

type UserRank struct {
	UserID     string  `json:"userId"`
	Rank       int     `json:"rank"`
	Score      int     `json:"score"`
	TotalUsers int     `json:"totalUsers"`
	Percentile float64 `json:"percentile"` // Top X%
}
