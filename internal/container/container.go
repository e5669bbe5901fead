package container

import (
	app "scan-crop/internal/application"
	"scan-crop/internal/domain/port"
)

type Container struct {
	CropService *app.CropService
}

func New(loader port.ImageLoader, writer port.ImageWriter, detector port.FrameDetector) *Container {
	return &Container{
		CropService: app.NewCropService(loader, writer, detector),
	}
}
