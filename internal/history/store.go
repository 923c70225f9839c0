package history

import (
	"context"
	"time"
)

// Store хранит секретные слова, уже выданные в рамках игровой сессии,
// чтобы следующие раунды их не повторяли.
type Store interface {
	// Words возвращает слова сессии в порядке добавления.
	// Для неизвестной или истекшей сессии возвращается пустой список.
	Words(ctx context.Context, sessionID string) ([]string, error)

	// Add добавляет слово и продлевает жизнь сессии.
	Add(ctx context.Context, sessionID string, word string) error

	// Reset удаляет всю историю сессии.
	Reset(ctx context.Context, sessionID string) error
}

// Expirer реализуют хранилища, которым нужна периодическая очистка.
type Expirer interface {
	ClearExpired(ctx context.Context, now time.Time) (int, error)
}
