// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-cookie-sync/internal/service"
)

// errorHint returns a short user-facing explanation for err, or "" when
// the error message speaks for itself.
func errorHint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrCredentialsMissing):
		return "Сохраните токен командой `cookiesync token set` и задайте парольную фразу"
	case errors.Is(err, service.ErrInvalidToken):
		return "GitHub отклонил токен: проверьте, что у него есть право gist"
	case errors.Is(err, service.ErrCannotDecrypt):
		return "Неверная парольная фраза или данные повреждены"
	case errors.Is(err, service.ErrRemoteChanged):
		return "Копия изменилась с другого устройства: выполните `cookiesync sync pull`"
	case errors.Is(err, service.ErrRateLimited):
		return "Превышен лимит запросов GitHub, повторите позже"
	case errors.Is(err, service.ErrRemoteUnavailable):
		return "GitHub временно недоступен"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Отсутствует сеть или GitHub недоступен"
	}

	return ""
}
