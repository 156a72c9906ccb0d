package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/hamadpass/khodarji-backend/api/responses"
	pkgauth "github.com/hamadpass/khodarji-backend/pkg/auth"
	"github.com/hamadpass/khodarji-backend/pkg/config"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
)

const sessionTokenHeader = "X-Khodarji-Token"

// Session resolves the client's session token, minting a fresh one when the
// header is absent or no longer valid, and seeds the request context with the
// session id. Every response echoes the token so clients can persist it.
func Session(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(sessionTokenHeader))

			var sessionID string
			if token != "" {
				id, err := pkgauth.ParseSessionToken(cfg, token)
				if err == nil {
					sessionID = id
				} else if logg != nil {
					logCtx := logg.WithField(r.Context(), "error", err.Error())
					logg.Debug(logCtx, "session token rejected; minting replacement")
				}
			}

			if sessionID == "" {
				minted, id, err := pkgauth.MintSessionToken(cfg, time.Now(), "")
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
					return
				}
				token = minted
				sessionID = id
			}

			w.Header().Set(sessionTokenHeader, token)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
