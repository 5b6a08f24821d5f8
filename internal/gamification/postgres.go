package gamification

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	model "github.com/jeffnmg/green-bin-buddy/internal/models"
	"github.com/jeffnmg/green-bin-buddy/internal/scanner"
)

// PostgresStore implémente Store sur le pool pgx partagé.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) GetUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, username, puntos, objetos_escaneados, racha_actual, racha_maxima,
		       ultimo_escaneo, bono_bienvenida, version
		FROM users
		WHERE id=$1 AND deleted_at IS NULL`,
		userID,
	)

	stats, err := scanner.ScanUserStats(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return stats, nil
}

func (p *PostgresStore) InsertScanRecord(ctx context.Context, rec *model.ScanRecord) error {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO scans(user_id, objeto_detectado, objeto_detectado_espanol, tipo_residuo,
		                  caneca, reciclable, confianza, puntos_ganados, origen, imagen_url, created_at)
		VALUES($1,$2,NULLIF($3,''),NULLIF($4,''),NULLIF($5,''),$6,$7,$8,$9,NULLIF($10,''),$11)
		RETURNING id`,
		rec.UserID, rec.DetectedObject, rec.DetectedObjectES, rec.WasteType,
		rec.Bin, rec.Recyclable, rec.Confidence, rec.PointsAwarded, rec.Origin, rec.ImageURL, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

// UpdateUserStats applique les nouvelles valeurs uniquement si la version
// lue est toujours la version courante. Zéro ligne touchée = un écrivain
// concurrent est passé avant nous.
func (p *PostgresStore) UpdateUserStats(ctx context.Context, userID string, upd StatsUpdate, expectedVersion int) error {
	res, err := p.pool.Exec(ctx, `
		UPDATE users
		SET puntos=$1, objetos_escaneados=$2, racha_actual=$3, racha_maxima=$4,
		    ultimo_escaneo=$5, bono_bienvenida=$6, version=version+1, updated_at=NOW()
		WHERE id=$7 AND version=$8 AND deleted_at IS NULL`,
		upd.Points, upd.ObjectsScanned, upd.CurrentStreak, upd.MaxStreak,
		upd.LastScanAt, upd.WelcomeBonus, userID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update user stats: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (p *PostgresStore) ListAchievementCatalog(ctx context.Context) ([]model.Achievement, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, nombre, descripcion, icono, tipo, umbral, activo, created_at
		FROM achievements
		WHERE activo=true
		ORDER BY umbral ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var catalog []model.Achievement
	for rows.Next() {
		a, err := scanner.ScanAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan achievement row: %w", err)
		}
		catalog = append(catalog, *a)
	}
	return catalog, rows.Err()
}

func (p *PostgresStore) ListUnlockedAchievementIDs(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT achievement_id FROM user_achievements WHERE user_id=$1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list unlocked achievements: %w", err)
	}
	defer rows.Close()

	unlocked := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unlocked achievement id: %w", err)
		}
		unlocked[id] = true
	}
	return unlocked, rows.Err()
}

// InsertUnlockedAchievementIfAbsent s'appuie sur la contrainte unique
// (user_id, achievement_id) : un doublon est un no-op, pas une erreur.
func (p *PostgresStore) InsertUnlockedAchievementIfAbsent(ctx context.Context, userID, achievementID string) (bool, error) {
	res, err := p.pool.Exec(ctx, `
		INSERT INTO user_achievements(user_id, achievement_id)
		VALUES($1,$2)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		userID, achievementID,
	)
	if err != nil {
		return false, fmt.Errorf("insert unlocked achievement: %w", err)
	}
	return res.RowsAffected() == 1, nil
}
