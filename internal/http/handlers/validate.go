package handlers

import "github.com/yungbote/classroom-backend/internal/platform/validate"

func validateMessage(err error) string {
	if msg := validate.Message(err); msg != "" {
		return msg
	}
	return "Invalid request body"
}
