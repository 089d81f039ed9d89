package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-cookie-sync/models"
)

// RenderReport summarizes a finished sync. A non-nil err is shown as is,
// followed by a hint when one is known.
func RenderReport(report models.SyncReport, err error) string {
	if err != nil {
		out := errorStyle.Render(err.Error())
		if hint := errorHint(err); hint != "" {
			out += "\n" + helpStyle.Render(hint)
		}
		return out
	}

	if report.Dropped {
		return warnStyle.Render("Синхронизация уже выполняется, запрос пропущен")
	}

	var lines []string
	if report.RemoteMissing {
		lines = append(lines, "Удалённая копия ещё не создана")
	}
	if report.NotModified {
		lines = append(lines, "Удалённая копия не изменилась")
	}
	if report.Applied > 0 || report.Failed > 0 {
		lines = append(lines, fmt.Sprintf("Записано cookies: %d", report.Applied))
	}
	if report.Failed > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("Не удалось записать: %d", report.Failed)))
	}
	if report.Expired > 0 {
		lines = append(lines, fmt.Sprintf("Пропущено просроченных: %d", report.Expired))
	}
	if report.Filtered > 0 {
		lines = append(lines, fmt.Sprintf("Отфильтровано политиками: %d", report.Filtered))
	}
	if report.PushSkipped {
		lines = append(lines, "Локальные cookies не изменились, загрузка пропущена")
	}
	if report.Pushed {
		lines = append(lines, "Зашифрованная копия загружена")
	}

	lines = append(lines, okStyle.Render("Готово"))
	return strings.Join(lines, "\n")
}

// RenderStatus renders the persisted sync state.
func RenderStatus(meta models.SyncMetadata, running bool) string {
	var b strings.Builder

	b.WriteString("Gist: ")
	b.WriteString(valueOrDash(meta.ObjectID))
	b.WriteString("\nETag: ")
	b.WriteString(valueOrDash(meta.ETag))
	b.WriteString("\nХэш последней загрузки: ")
	b.WriteString(valueOrDash(fitText(meta.LastHash, 24)))
	b.WriteString("\nСинхронизация: ")
	if running {
		b.WriteString(warnStyle.Render("выполняется"))
	} else {
		b.WriteString("не выполняется")
	}

	return renderPage("СОСТОЯНИЕ", b.String(), "")
}

// RenderPreferences renders filters, policies and the schedule.
func RenderPreferences(prefs models.Preferences) string {
	var b strings.Builder

	b.WriteString("Разрешённые домены: ")
	b.WriteString(joinOrDash(prefs.Filters.Allow))
	b.WriteString("\nЗапрещённые домены: ")
	b.WriteString(joinOrDash(prefs.Filters.Block))

	b.WriteString("\n\nПолитики доменов:")
	if len(prefs.DomainPolicies) == 0 {
		b.WriteString(" -")
	}
	for _, p := range prefs.DomainPolicies {
		fmt.Fprintf(&b, "\n  %-6s %s", p.Mode, p.Domain)
	}

	b.WriteString("\n\nПолитики cookies:")
	if len(prefs.CookiePolicies) == 0 {
		b.WriteString(" -")
	}
	for _, p := range prefs.CookiePolicies {
		fmt.Fprintf(&b, "\n  %-6s %s", p.Mode, p.ID)
	}

	b.WriteString("\n\nРасписание: ")
	if prefs.ScheduleMinutes > 0 {
		fmt.Fprintf(&b, "каждые %d мин.", prefs.ScheduleMinutes)
	} else {
		b.WriteString("по умолчанию")
	}

	return renderPage("ПОЛИТИКИ", b.String(), "")
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
