package ports

import "lorekeeper/internal/domain/combat"

type CombatMetrics interface {
	RecordSuccess(actionType combat.ActionType)
	RecordConflict()
	RecordFailure()
}
