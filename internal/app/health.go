package app

import (
	"context"
	"time"

	"github.com/redinteligente/authcode/internal/pkg/goerror"
	"github.com/redinteligente/authcode/internal/pkg/router"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

func (healthResponse) Message() string {
	return "service is healthy"
}

// healthEndpoint reports liveness of the process and its backing stores.
func (a *App) healthEndpoint(r *router.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "up", Cache: "up"}

	if err := a.dbConn.Ping(ctx); err != nil {
		return nil, goerror.NewServer(err)
	}

	if err := a.cacheConn.Ping(ctx).Err(); err != nil {
		return nil, goerror.NewServer(err)
	}

	return resp, nil
}
