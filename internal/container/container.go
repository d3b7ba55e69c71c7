package container

import (
	app "vision-overlay/internal/application"
	"vision-overlay/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	AnnotationService *app.AnnotationService
}

func New(userRepo port.UserRepository, inferencer port.Inferencer, renderer port.OverlayRenderer, opts ...app.AnnotationOption) *Container {
	return &Container{
		UserService:       app.NewUserService(userRepo),
		AnnotationService: app.NewAnnotationService(inferencer, renderer, opts...),
	}
}
