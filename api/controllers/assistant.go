package controllers

import (
	"net/http"

	"github.com/hamadpass/khodarji-backend/api/responses"
	"github.com/hamadpass/khodarji-backend/api/validators"
	"github.com/hamadpass/khodarji-backend/internal/assistant"
	"github.com/hamadpass/khodarji-backend/internal/session"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
)

const maxAssistantMessageLen = 2000

type assistantChatRequest struct {
	Message  string `json:"message" validate:"required"`
	Language string `json:"language"`
}

type assistantChatResponse struct {
	Reply string `json:"reply"`
}

// AssistantChat forwards the shopper's question to the assistant with the
// session cart as context.
func AssistantChat(manager *session.Manager, svc assistant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body assistantChatRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := resolveSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message := validators.SanitizeString(body.Message, maxAssistantMessageLen)
		lang := enums.ParseLanguage(body.Language)

		reply, err := svc.Reply(r.Context(), lang, sess.Snapshot().Cart, message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assistantChatResponse{Reply: reply})
	}
}
