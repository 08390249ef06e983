package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

const ctxAmountKey contextKey = "parsed_amount"

// parsedAmount is stored in context so the handler can read the amount
// without re-parsing the body.
type parsedAmount struct {
	AmountCents int64 `json:"amount_cents"`
}

// AmountFromCtx returns the amount parsed by AmountCheck, or 0 if not set.
func AmountFromCtx(ctx context.Context) int64 {
	if a, ok := ctx.Value(ctxAmountKey).(*parsedAmount); ok {
		return a.AmountCents
	}
	return 0
}

// AmountCheck rejects money-moving requests with a missing or non-positive
// amount_cents before they reach the bookkeeping service. Reads the body to
// extract the amount, then replaces r.Body so downstream handlers can
// re-read it.
func AmountCheck() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			r.Body.Close()
			if err != nil {
				http.Error(w, `{"error":"failed to read body"}`, http.StatusBadRequest)
				return
			}
			// Restore body for the handler.
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			var peek parsedAmount
			if err := json.Unmarshal(bodyBytes, &peek); err != nil {
				http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
				return
			}
			if peek.AmountCents <= 0 {
				http.Error(w, `{"error":"amount_cents must be > 0"}`, http.StatusBadRequest)
				return
			}

			ctx := context.WithValue(r.Context(), ctxAmountKey, &peek)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
