package services

import (
	"context"

	"github.com/Ram-SrinivasChandran/cos-spring-project/utils"
	log "github.com/sirupsen/logrus"
)

// logFor returns an entry carrying the request id of ctx, if any.
func logFor(ctx context.Context) *log.Entry {
	entry := log.WithContext(ctx)
	if id := utils.RequestIDFrom(ctx); id != "" {
		entry = entry.WithField("requestId", id)
	}
	return entry
}
