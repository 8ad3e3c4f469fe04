package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time reports how long a store or provider operation took. Defer the
// returned function with a pointer to the caller's named error result so the
// line also records the outcome; provider calls dominate load-run latency and
// these lines are how a slow stage is attributed.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start).Milliseconds()

		if errp != nil && *errp != nil {
			log.Printf("op=%s req_id=%s dur=%dms err=%v", name, reqID, dur, *errp)
			return
		}
		log.Printf("op=%s req_id=%s dur=%dms", name, reqID, dur)
	}
}
