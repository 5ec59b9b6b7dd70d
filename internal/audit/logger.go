package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/walkin-queue/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	actorID *uint,
	action string,
	entity string,
	entityID string,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: metaJSON,
	}

	return l.db.Create(&log).Error
}
