package config

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "staff-planner.com/staff-planner/internal/models"
)

func New(dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("db open failed")
	}

	err = db.AutoMigrate(
		&model.Task{},
		&model.TaskSkip{},
		&model.TaskOverride{},
		&model.TaskCompletion{},
		&model.Leave{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	return db
}
