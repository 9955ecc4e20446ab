package inbound

import (
	"context"

	"github.com/lankagov/gnportal/internal/document/entity"
	"github.com/lankagov/gnportal/internal/document/usecase"
	"github.com/lankagov/gnportal/internal/pkg/router"
)

type uc interface {
	MaxSize() int64
	Upload(ctx context.Context, in usecase.UploadInput) (*entity.Document, error)
	ListMine(ctx context.Context) ([]entity.Document, error)
	Download(ctx context.Context, id int64) (*usecase.DownloadOutput, error)
	Review(ctx context.Context, in usecase.ReviewInput) (*entity.Document, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/documents", end.Upload)
	r.GET("/api/v1/documents", end.ListMine)
	r.GET("/api/v1/documents/:id/download", end.Download)
	r.POST("/api/v1/officer/documents/:id/review", end.Review)
}
