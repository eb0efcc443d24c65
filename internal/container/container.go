package container

import (
	app "inspect-bot/internal/application"
	"inspect-bot/internal/domain/entity"
	"inspect-bot/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
}

func New(userRepo port.UserRepository, sessionRepo port.SessionRepository, detector port.DamageDetector, describer port.DamageDescriber, costs *entity.CostTable) *Container {
	userService := app.NewUserService(userRepo)
	inspectionService := app.NewInspectionService(sessionRepo, detector, describer, costs)

	return &Container{
		UserService:       userService,
		InspectionService: inspectionService,
	}
}
